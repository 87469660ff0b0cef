package gami

import (
	"sync"
	"time"
)

// captureUntil installs a temporary capture handler for each name in
// names, saving whatever was previously registered so it is restored on
// every exit path (normal completion or a forced error), per the
// scoped-acquisition design note replacing the original's monkey-patched
// instance methods. handle is invoked for every captured event and
// returns true once the stream is complete.
func (s *Session) captureUntil(names []string, handle func(name string, p *Packet) bool) error {
	done := make(chan struct{})
	var once sync.Once

	restores := make([]func(), 0, len(names))
	for _, name := range names {
		localName := name
		restore := s.Registry.capture("on_"+localName, func(p *Packet) error {
			if handle(localName, p) {
				once.Do(func() { close(done) })
			}
			return nil
		})
		restores = append(restores, restore)
	}
	defer func() {
		for _, r := range restores {
			r()
		}
	}()

	select {
	case <-done:
		return nil
	case <-time.After(DefaultActionTimeout):
		return ErrTimeout
	case <-s.closeCh:
		return ErrGoneAway
	}
}

// stripEvInfo removes the Event and ActionID headers from a captured
// body event before it enters an aggregate, per §4.5.
func stripEvInfo(p *Packet) {
	p.Del("Event")
	p.Del("ActionID")
}

// Status returns a map from channel identifier to that channel's
// remaining Status fields, aggregated from the Status/StatusComplete
// event stream.
func (s *Session) Status() (map[string]*Packet, error) {
	if _, err := s.action("Status"); err != nil {
		return nil, err
	}

	result := map[string]*Packet{}
	var mu sync.Mutex

	err := s.captureUntil([]string{"Status", "StatusComplete"}, func(name string, p *Packet) bool {
		if name == "StatusComplete" {
			return true
		}
		stripEvInfo(p)
		channel, _ := p.Get("Channel")
		p.Del("Channel")
		mu.Lock()
		result[channel] = p
		mu.Unlock()
		return false
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// QueueStatusEntry is one queue's aggregated params, members, and
// waiting entries.
type QueueStatusEntry struct {
	Fields  *Packet
	Members map[string]*Packet
	Entries map[string]*Packet
}

// QueueStatus returns a map from queue name to its aggregated status,
// built from the QueueParams/QueueMember/QueueEntry/QueueStatusEnd event
// stream.
func (s *Session) QueueStatus() (map[string]*QueueStatusEntry, error) {
	if _, err := s.action("QueueStatus"); err != nil {
		return nil, err
	}

	result := map[string]*QueueStatusEntry{}
	var mu sync.Mutex

	entryFor := func(queue string) *QueueStatusEntry {
		e, ok := result[queue]
		if !ok {
			e = &QueueStatusEntry{Members: map[string]*Packet{}, Entries: map[string]*Packet{}}
			result[queue] = e
		}
		return e
	}

	err := s.captureUntil(
		[]string{"QueueParams", "QueueMember", "QueueEntry", "QueueStatusEnd"},
		func(name string, p *Packet) bool {
			switch name {
			case "QueueStatusEnd":
				return true
			case "QueueParams":
				stripEvInfo(p)
				queue, _ := p.Get("Queue")
				p.Del("Queue")
				mu.Lock()
				entryFor(queue).Fields = p
				mu.Unlock()
			case "QueueMember":
				stripEvInfo(p)
				queue, _ := p.Get("Queue")
				p.Del("Queue")
				location, _ := p.Get("Location")
				p.Del("Location")
				mu.Lock()
				entryFor(queue).Members[location] = p
				mu.Unlock()
			case "QueueEntry":
				stripEvInfo(p)
				queue, _ := p.Get("Queue")
				p.Del("Queue")
				channel, _ := p.Get("Channel")
				p.Del("Channel")
				mu.Lock()
				entryFor(queue).Entries[channel] = p
				mu.Unlock()
			}
			return false
		},
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Queues is an alias for QueueStatus, matching the original's Queues =
// QueueStatus assignment.
func (s *Session) Queues() (map[string]*QueueStatusEntry, error) {
	return s.QueueStatus()
}

// ParkedCalls returns a map from parking extension to that call's
// remaining fields, aggregated from the ParkedCall/ParkedCallsComplete
// event stream.
func (s *Session) ParkedCalls() (map[string]*Packet, error) {
	if _, err := s.action("ParkedCalls"); err != nil {
		return nil, err
	}

	result := map[string]*Packet{}
	var mu sync.Mutex

	err := s.captureUntil([]string{"ParkedCall", "ParkedCallsComplete"}, func(name string, p *Packet) bool {
		if name == "ParkedCallsComplete" {
			return true
		}
		stripEvInfo(p)
		exten, _ := p.Get("Exten")
		p.Del("Exten")
		mu.Lock()
		result[exten] = p
		mu.Unlock()
		return false
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ZapShowChannels returns a map from Zapata channel number to that
// channel's remaining fields, aggregated from the
// ZapShowChannels/ZapShowChannelsComplete event stream.
func (s *Session) ZapShowChannels() (map[string]*Packet, error) {
	if _, err := s.action("ZapShowChannels"); err != nil {
		return nil, err
	}

	result := map[string]*Packet{}
	var mu sync.Mutex

	err := s.captureUntil([]string{"ZapShowChannels", "ZapShowChannelsComplete"}, func(name string, p *Packet) bool {
		if name == "ZapShowChannelsComplete" {
			return true
		}
		stripEvInfo(p)
		channel, _ := p.Get("Channel")
		p.Del("Channel")
		mu.Lock()
		result[channel] = p
		mu.Unlock()
		return false
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// isEventListComplete reports whether p's EventList header marks the end
// of a start/item.../Complete style stream. ConfbridgeList and MeetmeList
// end their capture on whichever comes first: their ...Complete event or
// any captured event carrying "EventList: Complete".
func isEventListComplete(p *Packet) bool {
	v, _ := p.Get("EventList")
	return v == "Complete"
}

// isEventListStart reports whether p is the synthetic "start" marker of
// such a stream, which carries no participant data and must be skipped.
func isEventListStart(p *Packet) bool {
	v, _ := p.Get("EventList")
	return v == "start"
}

// ConfbridgeList returns the ordered list of participants in conference,
// aggregated from the ConfbridgeList/ConfbridgeListComplete event stream.
func (s *Session) ConfbridgeList(conference string) ([]*Packet, error) {
	if _, err := s.action("ConfbridgeList", f("Conference", conference)); err != nil {
		return nil, err
	}

	var result []*Packet
	var mu sync.Mutex

	err := s.captureUntil([]string{"ConfbridgeList", "ConfbridgeListComplete"}, func(name string, p *Packet) bool {
		if name == "ConfbridgeListComplete" || isEventListComplete(p) {
			return true
		}
		if isEventListStart(p) {
			return false
		}
		stripEvInfo(p)
		mu.Lock()
		result = append(result, p)
		mu.Unlock()
		return false
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MeetmeList returns the ordered list of participants in conference, or
// across all MeetMe conferences when conference is empty, aggregated
// from the MeetmeList/MeetmeListComplete event stream.
func (s *Session) MeetmeList(conference string) ([]*Packet, error) {
	if _, err := s.action("MeetmeList", fOpt("Conference", conference)); err != nil {
		return nil, err
	}

	var result []*Packet
	var mu sync.Mutex

	err := s.captureUntil([]string{"MeetmeList", "MeetmeListComplete"}, func(name string, p *Packet) bool {
		if name == "MeetmeListComplete" || isEventListComplete(p) {
			return true
		}
		if isEventListStart(p) {
			return false
		}
		stripEvInfo(p)
		mu.Lock()
		result = append(result, p)
		mu.Unlock()
		return false
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
