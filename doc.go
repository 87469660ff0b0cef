/*
Package gami implements a client for the Asterisk Manager Interface
(AMI), the line-oriented text protocol exposed over TCP by the Asterisk
telephony engine.

The package authenticates against a running PBX, issues typed action
requests, correlates their responses, and concurrently demultiplexes
asynchronous events to subscribers.

Connecting and logging in:

	sess, err := gami.Dial(ctx, "astserver:5038", "admin", "secret", true)
	if err != nil {
		// handle error
	}
	defer sess.Close()

Placing a simple action:

	pong, err := sess.Ping()

Event handlers:

	sess.Registry.Subscribe("on_Hangup", func(p *gami.Packet) error {
		channel, _ := sess.Channel(p, "Channel")
		fmt.Printf("hangup on %s\n", channel)
		return nil
	})

List actions aggregate a whole event stream into one result:

	channels, err := sess.Status()

Originate requires exactly one of a dialplan target or an application
target:

	_, err := sess.Originate(gami.OriginateRequest{
		Channel: "SIP/1234",
		Application: &gami.OriginateApplication{Application: "Playback", Data: "hello-world"},
	})
*/
package gami
