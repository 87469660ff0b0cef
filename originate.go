package gami

// OriginateDialplan targets a dialplan extension.
type OriginateDialplan struct {
	Context  string
	Exten    string
	Priority int
}

// OriginateApplication targets an application directly.
type OriginateApplication struct {
	Application string
	Data        string
}

// OriginateRequest describes one Originate call. Exactly one of Dialplan
// or Application must be set; supplying both or neither is a local
// ActionFailed, reported without any write to the PBX.
type OriginateRequest struct {
	Channel     string
	Dialplan    *OriginateDialplan
	Application *OriginateApplication

	// Timeout is the answer timeout for Channel, in milliseconds per the
	// original docstring.
	Timeout  int
	CallerID string
	Account  string
	Async    bool
	Variable map[string]string
}

// Originate places a call per req. The dialplan/application mutual
// exclusion is validated locally before anything is written to the wire.
func (s *Session) Originate(req OriginateRequest) (*Packet, error) {
	hasDialplan := req.Dialplan != nil
	hasApplication := req.Application != nil

	if hasDialplan == hasApplication {
		if hasDialplan {
			return nil, NewActionFailed("Originate: dialplan and application calling style are mutually exclusive")
		}
		return nil, NewActionFailed("Originate: neither dialplan nor application calling style used")
	}
	if req.Channel == "" {
		return nil, NewActionFailed("Originate: you must specify a channel")
	}

	fields := []field{
		f("Channel", req.Channel),
		fOpt("CallerID", req.CallerID),
		fOpt("Account", req.Account),
	}
	if req.Timeout > 0 {
		fields = append(fields, fInt("Timeout", req.Timeout))
	}
	if req.Async {
		fields = append(fields, fYesNo("Async", true))
	}
	if v := varList(req.Variable); v != "" {
		fields = append(fields, f("Variable", v))
	}

	if hasDialplan {
		fields = append(fields,
			f("Context", req.Dialplan.Context),
			f("Exten", req.Dialplan.Exten),
			fInt("Priority", req.Dialplan.Priority),
		)
	} else {
		fields = append(fields,
			f("Application", req.Application.Application),
			fOpt("Data", req.Application.Data),
		)
	}

	return s.action("Originate", fields...)
}
