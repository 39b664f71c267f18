//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa
#import <Cocoa/Cocoa.h>

void
useAccessoryPolicy(void) {
    [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
}
*/
import "C"

import "go.uber.org/zap"

// RunAsTrayOnly removes the dock icon so the alarm lives in the menu bar only
func RunAsTrayOnly(log *zap.Logger) {
	log.Debug("Switching to accessory activation policy")
	C.useAccessoryPolicy()
}
