package gami

// Do sends a generic action packet built from name and an ordered list of
// header pairs, and validates the response. It exists for callers that
// build actions dynamically (the command-line front end) instead of
// going through one of the typed wrapper methods.
func (s *Session) Do(name string, headers [][2]string) (*Packet, error) {
	fields := make([]field, 0, len(headers))
	for _, h := range headers {
		fields = append(fields, f(h[0], h[1]))
	}
	return s.action(name, fields...)
}
