package alarm

import "sync"

// Permission is the tri-state notification capability
type Permission string

const (
	PermissionDefault Permission = "default" // Not requested yet
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Capability reports whether notifications may be shown.
// Anything other than PermissionGranted must prevent firing.
type Capability interface {
	Permission() Permission
}

// PermissionState is a Capability whose value is set once an asynchronous request resolves
type PermissionState struct {
	mu    sync.RWMutex
	value Permission
}

// NewPermissionState starts in the not-requested state
func NewPermissionState() *PermissionState {
	return &PermissionState{value: PermissionDefault}
}

func (p *PermissionState) Permission() Permission {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Set stores the outcome of a permission request
func (p *PermissionState) Set(value Permission) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = value
}
