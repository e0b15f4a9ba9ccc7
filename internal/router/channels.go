// Package router implements the single dispatch(channel, payload) entry
// point described for the request router: validate first, call the handler
// only on valid payloads, and shape every response into the uniform
// success/failure envelope.
package router

// Channel is the closed set of request names the router accepts.
type Channel string

const (
	ChannelSSHConnect                  Channel = "ssh-connect"
	ChannelSSHExecuteCommand           Channel = "ssh-execute-command"
	ChannelSSHListDirectory            Channel = "ssh-list-directory"
	ChannelSSHListDirectoryRecursive   Channel = "ssh-list-directory-recursive"
	ChannelSSHDownloadFile             Channel = "ssh-download-file"
	ChannelSSHUploadFile               Channel = "ssh-upload-file"
	ChannelSSHDisconnect               Channel = "ssh-disconnect"
	ChannelProfilesLoad                Channel = "profiles-load"
	ChannelProfilesSave                Channel = "profiles-save"
	ChannelCommandHistoryLoad          Channel = "command-history-load"
	ChannelCommandHistoryAppend        Channel = "command-history-append"
	ChannelCommandHistorySave          Channel = "command-history-save"
	ChannelKeysList                    Channel = "keys-list"
	ChannelKeysGenerate                Channel = "keys-generate"
	ChannelKeysImport                  Channel = "keys-import"
	ChannelLogsWrite                   Channel = "logs-write"
	ChannelDialogOpen                  Channel = "dialog-open"
)
