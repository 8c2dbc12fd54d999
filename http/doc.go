// Package http provides a small request/response facade over an HTTP
// transport: an immutable request builder, a reachability-gated dispatcher
// and a closed Outcome type that classifies every result.
//
// This package is designed for programmatic use and provides:
//   - A request builder with functional options and a derived Content-Length
//   - A client that dispatches asynchronously and resolves exactly once
//   - JSON classification of 200 bodies into maps and lists
//   - Pluggable transports (net/http and resty) and reachability sources
//
// Basic Usage:
//
//	client := http.NewClient(
//	    http.WithClientTimeout(30*time.Second),
//	    http.WithNotifier(notify.Nop{}),
//	)
//
//	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/users",
//	    http.WithHeader("Accept", "application/json"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	switch out := (<-client.DispatchJSON(ctx, req)).(type) {
//	case http.SuccessMap:
//	    fmt.Println(out.Fields["name"])
//	case http.SuccessList:
//	    fmt.Println(len(out.Items))
//	default:
//	    fmt.Println(http.Err(out))
//	}
//
// Continuation Style:
//
//	client.DispatchJSONFunc(ctx, req, func(out http.Outcome) {
//	    if err := http.Err(out); err != nil {
//	        log.Printf("request failed: %v", err)
//	    }
//	})
//
// Offline Handling:
//
// Before contacting the network the client asks its Reachability for the
// current default-route state. When no route is available the transport is
// never called, the Notifier receives NotifyOffline and the caller receives
// Offline.
package http
