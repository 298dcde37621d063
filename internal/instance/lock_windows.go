//go:build windows

package instance

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

func acquire(path, name string) (*Lock, error) {
	mutexName, err := windows.UTF16PtrFromString("Local\\" + name + "_SingleInstance")
	if err != nil {
		return nil, err
	}

	handle, err := windows.CreateMutex(nil, false, mutexName)
	if err != nil {
		if handle != 0 {
			windows.CloseHandle(handle)
		}
		if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("failed to create instance mutex: %w", err)
	}

	return &Lock{
		path: path,
		release: func() error {
			return windows.CloseHandle(handle)
		},
	}, nil
}
