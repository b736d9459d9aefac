// Package twitchirc provides a Go client for Twitch chat.
//
// Twitch chat speaks IRC over a WebSocket. This package parses the protocol's
// lines into [Message] values and serializes them back byte for byte, and runs
// a [Session] that logs in, joins a channel, answers keepalive PINGs and hands
// every other line to a [Dispatcher].
//
// # Thread Safety
//
// A [Session] is driven by one goroutine calling [Session.Run]. [Session.Send]
// and [Session.Close] may be called from any goroutine. A [Dispatcher] shared
// by several sessions must be safe for concurrent use.
//
// # Basic Usage
//
//	ctx := context.Background()
//
//	cfg, err := twitchirc.ConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	echo := twitchirc.DispatcherFunc(func(ctx context.Context, out twitchirc.Sender, msg *twitchirc.Message) error {
//	    pm, ok := msg.Privmsg()
//	    if !ok {
//	        return nil
//	    }
//	    return out.Send(ctx, twitchirc.Privmsg(pm.Channel, pm.Author+" said "+pm.Text))
//	})
//
//	if err := twitchirc.Run(ctx, twitchirc.DefaultURL, cfg, echo); err != nil {
//	    log.Fatal(err)
//	}
//
// # Observability
//
// Use [WithLogger], [WithOnSend], [WithOnReceive] and [WithOnParseError] to
// add logging and monitoring to a session:
//
//	session, err := twitchirc.Connect(ctx, twitchirc.SecureURL, cfg, dispatcher,
//	    twitchirc.WithLogger(slog.Default()),
//	    twitchirc.WithOnParseError(func(err error) {
//	        metrics.MalformedLines.Inc()
//	    }),
//	)
package twitchirc
