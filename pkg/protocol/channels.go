package protocol

// Channel names on the event bus. Replies do not use a fixed channel: a
// reply is published on the channel named by the id of the envelope it
// answers.
const (
	ChannelPluginEvent = "plugin_event"
	ChannelShowToast   = "show_toast"
	ChannelSettings    = "settings"
)
