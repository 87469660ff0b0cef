package gami

import "strings"

// Channel is a value object referencing one Asterisk channel leg, with
// convenience operations that forward to its owning Session. It never
// owns the socket; it is only a typed handle. IsZap reports whether the
// identifier starts (case-insensitively) with "zap", i.e. belongs to the
// Zapata driver. There is one Channel type for all identifiers: the Zap*
// methods below are defined on every Channel, not only on Zapata ones.
type Channel struct {
	id      string
	session *Session
}

// newChannel wraps id for session. The result has the same type whatever
// the identifier; IsZap tells Zapata channels apart.
func newChannel(session *Session, id string) Channel {
	return Channel{id: id, session: session}
}

// String returns the channel identifier, e.g. "SIP/100-1".
func (c Channel) String() string { return c.id }

// IsZap reports whether this channel belongs to the legacy Zapata driver.
func (c Channel) IsZap() bool {
	return len(c.id) >= 3 && strings.EqualFold(c.id[:3], "zap")
}

// AbsoluteTimeout sets this channel's absolute timeout.
func (c Channel) AbsoluteTimeout(timeout int) (*Packet, error) {
	return c.session.AbsoluteTimeout(c.id, timeout)
}

// ChangeMonitor changes this channel's monitor filename.
func (c Channel) ChangeMonitor(pathname string) (*Packet, error) {
	return c.session.ChangeMonitor(c.id, pathname)
}

// Getvar returns this channel's variable, or fails with ErrKeyNotFound if
// unset and no default is supplied.
func (c Channel) Getvar(variable string, def ...string) (string, error) {
	return c.session.Getvar(c.id, variable, def...)
}

// Setvar sets this channel's variable.
func (c Channel) Setvar(variable, value string) (*Packet, error) {
	return c.session.Setvar(c.id, variable, value)
}

// Hangup hangs up this channel.
func (c Channel) Hangup() (*Packet, error) {
	return c.session.Hangup(c.id)
}

// Monitor begins monitoring this channel.
func (c Channel) Monitor(pathname, format string, mix bool) (*Packet, error) {
	return c.session.Monitor(c.id, pathname, format, mix)
}

// StopMonitor stops monitoring this channel.
func (c Channel) StopMonitor() (*Packet, error) {
	return c.session.StopMonitor(c.id)
}

// Redirect moves this channel to priority of extension in context,
// optionally bridging with a second channel.
func (c Channel) Redirect(context, extension string, priority int, channel2 string) (*Packet, error) {
	return c.session.Redirect(c.id, context, extension, priority, channel2)
}

// SetCDRUserField appends or replaces this channel's CDR user field.
func (c Channel) SetCDRUserField(data string, appendField bool) (*Packet, error) {
	return c.session.SetCDRUserField(c.id, data, appendField)
}

// Status returns this channel's Status() entry, the way the original's
// self.manager.Status()[self.channel_id] does. Documented (as in the
// original) as wasteful: it runs a full Status aggregation and picks out
// one entry.
func (c Channel) Status() (*Packet, error) {
	all, err := c.session.Status()
	if err != nil {
		return nil, err
	}
	entry, ok := all[c.id]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return entry, nil
}

// ZapDNDoff disables DND status on this Zapata driver channel.
func (c Channel) ZapDNDoff() (*Packet, error) { return c.session.ZapDNDoff(c.id) }

// ZapDNDon enables DND status on this Zapata driver channel.
func (c Channel) ZapDNDon() (*Packet, error) { return c.session.ZapDNDon(c.id) }

// ZapDialOffhook off-hook dials number on this Zapata driver channel.
func (c Channel) ZapDialOffhook(number string) (*Packet, error) {
	return c.session.ZapDialOffhook(c.id, number)
}

// ZapHangup hangs up this Zapata driver channel.
func (c Channel) ZapHangup() (*Packet, error) { return c.session.ZapHangup(c.id) }

// ZapTransfer transfers this Zapata driver channel.
func (c Channel) ZapTransfer() (*Packet, error) { return c.session.ZapTransfer(c.id) }
