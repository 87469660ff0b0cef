package gami

import (
	"encoding/base64"
	"sort"
	"strconv"
	"strings"
)

func base64Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// field is one outbound header: value is omitted entirely when omitEmpty
// is set and value is the empty string, matching the "unspecified value
// is omitted, distinct from an empty string" encoding rule.
type field struct {
	key       string
	value     string
	omitEmpty bool
}

func f(key, value string) field             { return field{key: key, value: value} }
func fOpt(key, value string) field          { return field{key: key, value: value, omitEmpty: true} }
func fInt(key string, value int) field      { return field{key: key, value: strconv.Itoa(value)} }
func fYesNo(key string, value bool) field {
	v := "no"
	if value {
		v = "yes"
	}
	return field{key: key, value: v}
}

// varList joins a variable map into Asterisk's "K=V,K2=V2" Variable
// header shape, in deterministic (sorted) key order.
func varList(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + vars[k]
	}
	return strings.Join(parts, ",")
}

// action builds a packet named name with the given fields, sends it, and
// validates the response per the success-vs-failure rule in §4.3.
func (s *Session) action(name string, fields ...field) (*Packet, error) {
	p := NewPacket()
	p.Set("Action", name)
	for _, fl := range fields {
		if fl.omitEmpty && fl.value == "" {
			continue
		}
		p.Set(fl.key, fl.value)
	}
	return validate(s.callTimeout(p))
}

// Ping is a no-op used to keep the connection alive and confirm the PBX
// is still there.
func (s *Session) Ping() (*Packet, error) {
	return s.action("Ping")
}

// Logoff closes the connection to the PBX. It is equivalent to Close.
func (s *Session) Logoff() error {
	return s.Close()
}

// Hangup hangs up channel.
func (s *Session) Hangup(channel string) (*Packet, error) {
	return s.action("Hangup", f("Channel", channel))
}

// Redirect moves channel to priority of extension in context, optionally
// bridging with channel2.
func (s *Session) Redirect(channel, context, extension string, priority int, channel2 string) (*Packet, error) {
	return s.action("Redirect",
		f("Channel", channel),
		f("Context", context),
		f("Exten", extension),
		fInt("Priority", priority),
		fOpt("ExtraChannel", channel2),
	)
}

// Bridge bridges two channels already present in the PBX.
func (s *Session) Bridge(channel1, channel2 string, tone bool) (*Packet, error) {
	return s.action("Bridge",
		f("Channel1", channel1),
		f("Channel2", channel2),
		fYesNo("Tone", tone),
	)
}

// Command executes an Asterisk CLI command and returns its output lines.
func (s *Session) Command(command string) ([]string, error) {
	p, err := s.action("Command", f("Command", command))
	if err != nil {
		return nil, err
	}
	return p.Lines(), nil
}

// AbsoluteTimeout sets channel's absolute timeout. The unit is whatever
// the PBX's manager.c documents for this action (unclear upstream; passed
// through as an opaque integer per the spec's Open Question resolution).
func (s *Session) AbsoluteTimeout(channel string, timeout int) (*Packet, error) {
	return s.action("AbsoluteTimeout", f("Channel", channel), fInt("Timeout", timeout))
}

// ChangeMonitor changes channel's monitor filename.
func (s *Session) ChangeMonitor(channel, pathname string) (*Packet, error) {
	return s.action("ChangeMonitor", f("Channel", channel), f("File", pathname))
}

// Events filters received events to only those named in categories.
func (s *Session) Events(categories []string) (*Packet, error) {
	return s.action("Events", f("EventMask", strings.Join(categories, ",")))
}

// ExtensionState returns the state of extension in context.
func (s *Session) ExtensionState(context, extension string) (*Packet, error) {
	return s.action("ExtensionState", f("Context", context), f("Exten", extension))
}

// ListCommands returns a map of all actions the PBX exposes to their
// description, as returned by the ListCommands action.
func (s *Session) ListCommands() (map[string]string, error) {
	p, err := s.action("ListCommands")
	if err != nil {
		return nil, err
	}
	out := p.Raw()
	delete(out, "Response")
	return out, nil
}

// Getvar returns channel's variable, or a caller-supplied default when
// the PBX reports it unset (the literal string "(null)"), or fails with
// ErrKeyNotFound when no default was supplied.
func (s *Session) Getvar(channel, variable string, def ...string) (string, error) {
	p, err := s.action("Getvar", f("Channel", channel), f("Variable", variable))
	if err != nil {
		return "", err
	}
	value, _ := p.Get(variable)
	if value != "(null)" {
		return value, nil
	}
	if len(def) > 0 {
		return def[0], nil
	}
	return "", ErrKeyNotFound
}

// Setvar sets channel's variable to value.
func (s *Session) Setvar(channel, variable, value string) (*Packet, error) {
	return s.action("Setvar", f("Channel", channel), f("Variable", variable), f("Value", value))
}

// MailboxCount returns (new, old) message counts for mailbox.
func (s *Session) MailboxCount(mailbox string) (newMessages, oldMessages int, err error) {
	p, err := s.action("MailboxCount", f("Mailbox", mailbox))
	if err != nil {
		return 0, 0, err
	}
	n, _ := p.Get("NewMessages")
	o, _ := p.Get("OldMessages")
	newMessages, _ = strconv.Atoi(n)
	oldMessages, _ = strconv.Atoi(o)
	return newMessages, oldMessages, nil
}

// MailboxStatus returns the number of waiting messages in mailbox.
func (s *Session) MailboxStatus(mailbox string) (int, error) {
	p, err := s.action("MailboxStatus", f("Mailbox", mailbox))
	if err != nil {
		return 0, err
	}
	w, _ := p.Get("Waiting")
	return strconv.Atoi(w)
}

// Monitor begins monitoring channel into pathname using format.
func (s *Session) Monitor(channel, pathname, format string, mix bool) (*Packet, error) {
	return s.action("Monitor",
		f("Channel", channel),
		f("File", pathname),
		f("Format", format),
		fYesNo("Mix", mix),
	)
}

// StopMonitor stops monitoring channel.
func (s *Session) StopMonitor(channel string) (*Packet, error) {
	return s.action("StopMonitor", f("Channel", channel))
}

// SetCDRUserField appends or replaces channel's CDR user field with data.
func (s *Session) SetCDRUserField(channel, data string, appendField bool) (*Packet, error) {
	return s.action("SetCDRUserField",
		f("Channel", channel),
		f("UserField", data),
		fYesNo("Append", appendField),
	)
}

// QueueAdd adds interface to queue with an optional penalty.
func (s *Session) QueueAdd(queue, iface string, penalty int) (*Packet, error) {
	return s.action("QueueAdd", f("Queue", queue), f("Interface", iface), fInt("Penalty", penalty))
}

// QueueRemove removes interface from queue.
func (s *Session) QueueRemove(queue, iface string) (*Packet, error) {
	return s.action("QueueRemove", f("Queue", queue), f("Interface", iface))
}

// UserEvent sends an arbitrary user-defined event, named name, with
// headers merged onto the packet.
func (s *Session) UserEvent(name string, headers map[string]string) (*Packet, error) {
	fields := []field{f("UserEvent", name)}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, f(k, headers[k]))
	}
	return s.action("UserEvent", fields...)
}

// DbGet retrieves family/key from the Asterisk internal database.
func (s *Session) DbGet(family, key string) (string, error) {
	p, err := s.action("DBGet", f("Family", family), f("Key", key))
	if err != nil {
		return "", err
	}
	v, _ := p.Get("Val")
	return v, nil
}

// DbPut stores value at family/key in the Asterisk internal database.
func (s *Session) DbPut(family, key, value string) (*Packet, error) {
	return s.action("DBPut", f("Family", family), f("Key", key), f("Value", value))
}

// DbDel removes family/key from the Asterisk internal database.
func (s *Session) DbDel(family, key string) (*Packet, error) {
	return s.action("DBDel", f("Family", family), f("Key", key))
}

// DbDelTree removes a whole family (optionally rooted at key) from the
// Asterisk internal database.
func (s *Session) DbDelTree(family, key string) (*Packet, error) {
	return s.action("DBDelTree", f("Family", family), fOpt("Key", key))
}

// MessageSend sends a text message (PJSIP/SIP/XMPP) from from to to. When
// useBase64 is set, body travels as Base64Body instead of Body.
func (s *Session) MessageSend(to, from, body string, useBase64 bool, vars map[string]string) (*Packet, error) {
	fields := []field{f("To", to), f("From", from)}
	if useBase64 {
		fields = append(fields, f("Base64Body", base64Encode(body)))
	} else {
		fields = append(fields, f("Body", body))
	}
	if v := varList(vars); v != "" {
		fields = append(fields, f("Variable", v))
	}
	return s.action("MessageSend", fields...)
}

// ModuleLoad loads, unloads, or reloads an Asterisk module.
func (s *Session) ModuleLoad(module, loadType string) (*Packet, error) {
	return s.action("ModuleLoad", f("Module", module), f("LoadType", loadType))
}

// Reload reloads an Asterisk module.
func (s *Session) Reload(module string) (*Packet, error) {
	return s.action("Reload", f("Module", module))
}

// CreateConfig creates an empty Asterisk config file.
func (s *Session) CreateConfig(filename string) (*Packet, error) {
	return s.action("CreateConfig", f("Filename", filename))
}

// GetConfig returns an Asterisk config file's content. category is
// ignored when json is set (GetConfigJSON returns the whole file).
func (s *Session) GetConfig(filename, category string, json bool) (*Packet, error) {
	if json {
		return s.action("GetConfigJSON", f("Filename", filename))
	}
	return s.action("GetConfig", f("Filename", filename), fOpt("Category", category))
}

// UpdateConfigAction is one edit applied by UpdateConfig.
type UpdateConfigAction struct {
	Action   string
	Category string
	Variable string
	Value    string
	Match    string
	Line     string
}

// UpdateConfig applies actions to srcFile, writing the result to dstFile
// and optionally reloading the module named reload.
func (s *Session) UpdateConfig(srcFile, dstFile, reload string, actions []UpdateConfigAction) (*Packet, error) {
	fields := []field{
		f("SrcFilename", srcFile),
		f("DstFilename", dstFile),
		fOpt("Reload", reload),
	}
	for i, a := range actions {
		id := strconv.Itoa(i)
		for len(id) < 6 {
			id = "0" + id
		}
		fields = append(fields,
			f("Action-"+id, a.Action),
			f("Cat-"+id, a.Category),
			f("Var-"+id, a.Variable),
			f("Value-"+id, a.Value),
			f("Match-"+id, a.Match),
			f("Line-"+id, a.Line),
		)
	}
	return s.action("UpdateConfig", fields...)
}

// ZapDialOffhook off-hook dials number on Zapata driver channel.
func (s *Session) ZapDialOffhook(channel, number string) (*Packet, error) {
	return s.action("ZapDialOffhook", f("ZapChannel", channel), f("Number", number))
}

// ZapDNDoff disables DND status on Zapata driver channel.
func (s *Session) ZapDNDoff(channel string) (*Packet, error) {
	return s.action("ZapDNDoff", f("ZapChannel", channel))
}

// ZapDNDon enables DND status on Zapata driver channel.
func (s *Session) ZapDNDon(channel string) (*Packet, error) {
	return s.action("ZapDNDon", f("ZapChannel", channel))
}

// ZapHangup hangs up Zapata driver channel.
func (s *Session) ZapHangup(channel string) (*Packet, error) {
	return s.action("ZapHangup", f("ZapChannel", channel))
}

// ZapTransfer transfers Zapata driver channel. The original notes this
// does nothing on an X100P card; kept for protocol completeness.
func (s *Session) ZapTransfer(channel string) (*Packet, error) {
	return s.action("ZapTransfer", f("ZapChannel", channel))
}
