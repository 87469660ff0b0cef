package gami

// ActionDescriptor documents one action for the CLI's "actions" and
// "help" subcommands, replacing the original's runtime introspection
// (inspect.getmembers + docstrings) with a static table: Go method sets
// do not carry their doc comments at runtime.
type ActionDescriptor struct {
	Name  string
	Usage string
	Doc   string
}

// Catalog lists every built-in action exposed by Session, in the order
// the original's Manager.py mixes them in (core actions, then Zapata).
var Catalog = []ActionDescriptor{
	{"Ping", "Ping", "No-op to ensure the PBX is still there and keep the connection alive."},
	{"Logoff", "Logoff", "Close the connection to the PBX."},
	{"Hangup", "Hangup channel", "Hangup channel."},
	{"Redirect", "Redirect channel context exten priority [channel2]", "Redirect channel to priority of exten in context, optionally bridging with channel2."},
	{"Bridge", "Bridge channel1 channel2 [--tone=yes|no]", "Bridge two channels already in the PBX."},
	{"Command", "Command \"<console-cmd>\"", "Execute an Asterisk CLI command and return its output lines."},
	{"AbsoluteTimeout", "AbsoluteTimeout channel timeout", "Set the absolute timeout of channel."},
	{"ChangeMonitor", "ChangeMonitor channel pathname", "Change the monitor filename of channel."},
	{"Events", "Events category[,category...]", "Filter received events to only those listed."},
	{"ExtensionState", "ExtensionState context exten", "Return the state of exten in context."},
	{"ListCommands", "ListCommands", "Return a map of all available actions to their description."},
	{"Getvar", "Getvar channel variable [default]", "Return channel's variable, default, or fail with KeyNotFound."},
	{"Setvar", "Setvar channel variable value", "Set channel's variable to value."},
	{"MailboxCount", "MailboxCount mailbox", "Return (new, old) message counts for mailbox."},
	{"MailboxStatus", "MailboxStatus mailbox", "Return the number of waiting messages in mailbox."},
	{"Monitor", "Monitor channel pathname format [--mix=yes|no]", "Begin monitoring channel into pathname using format."},
	{"StopMonitor", "StopMonitor channel", "Stop monitoring channel."},
	{"SetCDRUserField", "SetCDRUserField channel data [--append=yes|no]", "Append or replace channel's CDR user field."},
	{"QueueAdd", "QueueAdd queue interface [penalty]", "Add interface to queue."},
	{"QueueRemove", "QueueRemove queue interface", "Remove interface from queue."},
	{"QueueStatus", "QueueStatus", "Return a nested map describing queue statuses."},
	{"UserEvent", "UserEvent name [--key=value...]", "Send an arbitrary user-defined event."},
	{"DbGet", "DbGet family key", "Retrieve a value from the Asterisk internal database."},
	{"DbPut", "DbPut family key value", "Store a value in the Asterisk internal database."},
	{"DbDel", "DbDel family key", "Remove a value from the Asterisk internal database."},
	{"DbDelTree", "DbDelTree family [key]", "Remove a family tree from the Asterisk internal database."},
	{"MessageSend", "MessageSend to from body [--base64]", "Send a text message."},
	{"ModuleLoad", "ModuleLoad module loadtype", "Load, unload, or reload an Asterisk module."},
	{"Reload", "Reload module", "Reload an Asterisk module."},
	{"CreateConfig", "CreateConfig filename", "Create an empty Asterisk config file."},
	{"GetConfig", "GetConfig filename [category] [--json]", "Return an Asterisk config file's content, optionally as JSON."},
	{"UpdateConfig", "UpdateConfig srcfile dstfile [reload] [actions...]", "Apply a sequence of edits to an Asterisk config file."},
	{"Originate", "Originate channel (context exten priority | application [data])", "Originate a call on channel."},
	{"ParkedCalls", "ParkedCalls", "Return a map of parked calls by extension."},
	{"Status", "Status", "Return a map of channel statuses."},
	{"ConfbridgeList", "ConfbridgeList conference", "List participants in a Confbridge conference."},
	{"MeetmeList", "MeetmeList [conference]", "List participants in a MeetMe conference."},
	{"ZapDialOffhook", "ZapDialOffhook channel number", "Off-hook dial number on a Zapata driver channel."},
	{"ZapDNDoff", "ZapDNDoff channel", "Disable DND status on a Zapata driver channel."},
	{"ZapDNDon", "ZapDNDon channel", "Enable DND status on a Zapata driver channel."},
	{"ZapHangup", "ZapHangup channel", "Hangup a Zapata driver channel."},
	{"ZapShowChannels", "ZapShowChannels", "Return a map of Zapata driver channel statuses."},
	{"ZapTransfer", "ZapTransfer channel", "Transfer a Zapata driver channel."},
}

// Describe returns the ActionDescriptor for name, if any.
func Describe(name string) (ActionDescriptor, bool) {
	for _, d := range Catalog {
		if d.Name == name {
			return d, true
		}
	}
	return ActionDescriptor{}, false
}
