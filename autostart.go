package main

import (
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
	"go.uber.org/zap"
)

func setupAutostart(enable bool, log *zap.Logger) error {
	// Get the executable path
	execPath, err := os.Executable()
	if err != nil {
		return err
	}

	// Resolve symlinks if any
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return err
	}

	app := &autostart.App{
		Name:        "study-alarm",
		DisplayName: "Study Alarm",
		Exec:        []string{execPath, "run"},
	}

	if enable == app.IsEnabled() {
		return nil
	}

	if enable {
		if err := app.Enable(); err != nil {
			return err
		}
		log.Info("Autostart enabled", zap.String("exec", execPath))
		return nil
	}

	if err := app.Disable(); err != nil {
		return err
	}
	log.Info("Autostart disabled")
	return nil
}
