//go:build !darwin

package platform

import "go.uber.org/zap"

// RunAsTrayOnly is a no-op where the tray icon has no dock counterpart
func RunAsTrayOnly(log *zap.Logger) {}
