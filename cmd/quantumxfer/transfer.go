package main

import (
	"context"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/shavali-arc/quantumxfer-sub002/internal/session"
)

// newTransferCommand exercises C5's download/upload pair against a live
// key-authenticated connection built from --host, --port, --user and --key,
// rendering a progress bar as the throttled progress events arrive.
func newTransferCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Download or upload a single file over SFTP",
	}
	cmd.AddCommand(newTransferDownloadCommand())
	cmd.AddCommand(newTransferUploadCommand())
	return cmd
}

func newTransferDownloadCommand() *cobra.Command {
	var host, user, keyPath, remotePath, localPath string
	var port int
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download a remote file to a local path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(cmd, host, user, keyPath, port, func(ctx context.Context, sessions *session.Manager, id uint64, onProgress session.ProgressFunc) session.TransferResult {
				return sessions.Download(ctx, id, remotePath, localPath, func() bool { return false }, onProgress)
			})
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "remote host name or address")
	cmd.Flags().IntVar(&port, "port", 22, "remote SSH port")
	cmd.Flags().StringVar(&user, "user", "", "remote username")
	cmd.Flags().StringVar(&keyPath, "key", "", "path to a private key file")
	cmd.Flags().StringVar(&remotePath, "remote", "", "remote file path")
	cmd.Flags().StringVar(&localPath, "local", "", "local destination path")
	return cmd
}

func newTransferUploadCommand() *cobra.Command {
	var host, user, keyPath, remotePath, localPath string
	var port int
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a local file to a remote path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(cmd, host, user, keyPath, port, func(ctx context.Context, sessions *session.Manager, id uint64, onProgress session.ProgressFunc) session.TransferResult {
				return sessions.Upload(ctx, id, localPath, remotePath, func() bool { return false }, onProgress)
			})
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "remote host name or address")
	cmd.Flags().IntVar(&port, "port", 22, "remote SSH port")
	cmd.Flags().StringVar(&user, "user", "", "remote username")
	cmd.Flags().StringVar(&keyPath, "key", "", "path to a private key file")
	cmd.Flags().StringVar(&remotePath, "remote", "", "remote destination path")
	cmd.Flags().StringVar(&localPath, "local", "", "local source path")
	return cmd
}

type transferFunc func(ctx context.Context, sessions *session.Manager, id uint64, onProgress session.ProgressFunc) session.TransferResult

func runTransfer(cmd *cobra.Command, host, user, keyPath string, port int, fn transferFunc) error {
	_, logger, err := loadCore()
	if err != nil {
		return err
	}
	sessions := session.NewManager()
	sessions.SetLogger(logger)

	connectResult := sessions.Connect(session.ConnectionConfig{
		Host:           host,
		Port:           port,
		Username:       user,
		AuthType:       session.AuthKey,
		PrivateKeyPath: keyPath,
		TimeoutSeconds: 30,
	})
	if !connectResult.Success {
		return exitWith(exitConnectionError, fmt.Errorf("%s", connectResult.Error))
	}
	defer sessions.Disconnect(connectResult.ConnectionID)

	var bar *progressbar.ProgressBar
	onProgress := func(ev session.ProgressEvent) {
		if bar == nil {
			bar = progressbar.NewOptions64(
				ev.Total,
				progressbar.OptionSetDescription(ev.TransferID),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionShowBytes(true),
				progressbar.OptionSetWidth(10),
				progressbar.OptionThrottle(100*time.Millisecond),
				progressbar.OptionShowCount(),
				progressbar.OptionSpinnerType(14),
				progressbar.OptionFullWidth(),
				progressbar.OptionSetRenderBlankState(true),
			)
		}
		_ = bar.Set64(ev.Bytes)
	}

	result := fn(context.Background(), sessions, connectResult.ConnectionID, onProgress)
	if bar != nil {
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	if !result.Success {
		code := exitConnectionError
		if result.Code == session.CodeCancelled {
			code = exitValidationError
		}
		return exitWith(code, fmt.Errorf("%s (%s)", result.Error, result.Code))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "transferred %d bytes (transfer %s)\n", result.BytesMoved, result.TransferID)
	return nil
}
