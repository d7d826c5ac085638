package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tu10ng/vrpmock/internal/app"
	"github.com/tu10ng/vrpmock/internal/network/ssh"
	"github.com/tu10ng/vrpmock/internal/network/telnet"
)

var serveCmd = &cobra.Command{
	Use:              "serve",
	Short:            "Start the mock device listeners",
	PersistentPreRun: bootAppForServer,
	Run:              startServer,
}

func bootAppForServer(cmd *cobra.Command, args []string) {
	if err := app.Boot(cfgFile, false); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func startServer(cmd *cobra.Command, args []string) {
	restartChan := make(chan struct{}, 1)
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)

	for {
		var watcher *fsnotify.Watcher
		if app.Config.HotReload {
			var err error
			watcher, err = fsnotify.NewWatcher()
			if err != nil {
				app.Logger.Error("Failed to create watcher", "err", err)
			} else {
				for _, file := range app.Config.LoadedFiles {
					err = watcher.Add(file)

					// Try to make path relative for cleaner logging
					relPath := file
					if cwd, err := os.Getwd(); err == nil {
						if rel, err := filepath.Rel(cwd, file); err == nil {
							relPath = rel
						}
					}

					if err != nil {
						app.Logger.Error("Failed to watch config file", "file", relPath, "err", err)
					} else {
						app.Logger.Debug("Watching config file", "file", relPath)
					}
				}

				go func(w *fsnotify.Watcher) {
					for {
						select {
						case event, ok := <-w.Events:
							if !ok {
								return
							}
							if event.Op&fsnotify.Write == fsnotify.Write {
								if !app.Config.HotReload {
									continue
								}
								app.Logger.Info("Config file modified, rebooting app...", "file", event.Name)
								select {
								case restartChan <- struct{}{}:
								default:
									// restart pending
								}
							}
						case err, ok := <-w.Errors:
							if !ok {
								return
							}
							app.Logger.Error("Watcher error", "err", err)
						}
					}
				}(watcher)
			}
		}

		var wg sync.WaitGroup
		var telnetServer *telnet.Server
		var sshServer *ssh.Server

		telnetEnabled := app.Config.Listeners.Telnet.Enabled
		sshEnabled := app.Config.Listeners.SSH.Enabled

		if !telnetEnabled && !sshEnabled {
			app.Logger.Warn("No listeners enabled.")
			select {
			case <-stopChan:
				if watcher != nil {
					watcher.Close()
				}
				return
			case <-restartChan:
				if watcher != nil {
					watcher.Close()
				}
				if err := app.Boot(cfgFile, false); err != nil {
					app.Logger.Error("Failed to reload config", "err", err)
				}
				continue
			}
		}

		if telnetEnabled {
			wg.Add(1)
			telnetServer = telnet.NewServer()
			go func() {
				defer wg.Done()
				if err := telnetServer.ListenAndServe(); err != nil {
					app.Logger.Error("Telnet server stopped", "err", err)
				}
			}()
		}

		if sshEnabled {
			wg.Add(1)
			sshServer = ssh.NewServer()
			go func() {
				defer wg.Done()
				if err := sshServer.ListenAndServe(); err != nil {
					app.Logger.Error("SSH server stopped", "err", err)
				}
			}()
		}

		select {
		case <-stopChan:
			app.Logger.Info("Shutting down...")
			if telnetServer != nil {
				telnetServer.Stop()
			}
			if sshServer != nil {
				sshServer.Stop()
			}
			if watcher != nil {
				watcher.Close()
			}
			wg.Wait()
			return

		case <-restartChan:
			if telnetServer != nil {
				telnetServer.Stop()
			}
			if sshServer != nil {
				sshServer.Stop()
			}
			if watcher != nil {
				watcher.Close()
			}

			wg.Wait()

			if err := app.Boot(cfgFile, false); err != nil {
				app.Logger.Error("Failed to reload config", "err", err)
				// Keep running with the existing config; Boot does not
				// swap globals on failure.
			}
		}
	}
}
