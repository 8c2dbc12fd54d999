package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"
)

// Reply is what a Transport hands back for a completed exchange.
// StatusCode is zero when the transport produced no HTTP status.
type Reply struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Timing     TimingInfo
}

// TimingInfo stores the phases of one exchange as seen by the transport.
type TimingInfo struct {
	StartTime           time.Time
	DNSLookupTime       time.Duration
	TCPConnectTime      time.Duration
	TLSHandshakeTime    time.Duration
	TimeToFirstByte     time.Duration
	ContentTransferTime time.Duration
	TotalTime           time.Duration
}

// Transport submits a Request and returns its Reply. Implementations must
// honour ctx and must be safe for concurrent use.
type Transport interface {
	RoundTrip(ctx context.Context, req *Request) (*Reply, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*Reply, error)

// RoundTrip calls f(ctx, req).
func (f TransportFunc) RoundTrip(ctx context.Context, req *Request) (*Reply, error) {
	return f(ctx, req)
}

// NetTransport sends requests with a *http.Client and records phase timing.
type NetTransport struct {
	client *http.Client
}

// NewNetTransport wraps client. A nil client uses a fresh http.Client with
// the default redirect policy; timeouts come from each Request.
func NewNetTransport(client *http.Client) *NetTransport {
	if client == nil {
		client = &http.Client{}
	}
	return &NetTransport{client: client}
}

// RoundTrip executes req and reads the full body.
func (t *NetTransport) RoundTrip(ctx context.Context, req *Request) (*Reply, error) {
	var bodyReader io.Reader
	if req.HasBody() {
		bodyReader = bytes.NewReader(req.Body())
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method()), req.URL(), bodyReader)
	if err != nil {
		return nil, err
	}

	// Assign directly so header keys keep the caller's spelling
	for key, value := range req.Headers() {
		if isContentLength(key) {
			continue
		}
		httpReq.Header[key] = []string{value}
	}
	if req.HasBody() {
		httpReq.ContentLength = int64(len(req.Body()))
	}

	timing := TimingInfo{StartTime: time.Now()}
	httpReq = httpReq.WithContext(httptrace.WithClientTrace(ctx, newTimingTrace(&timing)))

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	timing.TotalTime = time.Since(timing.StartTime)

	contentTransferStart := time.Now()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	timing.ContentTransferTime = time.Since(contentTransferStart)

	return &Reply{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
		Timing:     timing,
	}, nil
}

// newTimingTrace fills timing as the connection phases complete.
func newTimingTrace(timing *TimingInfo) *httptrace.ClientTrace {
	var dnsStart, connectStart, tlsHandshakeStart time.Time
	var dnsDone, connectDone bool
	lastPhaseEnd := timing.StartTime

	return &httptrace.ClientTrace{
		DNSStart: func(info httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			dnsEnd := time.Now()
			timing.DNSLookupTime = dnsEnd.Sub(dnsStart)
			dnsDone = true
			lastPhaseEnd = dnsEnd
		},
		ConnectStart: func(network, addr string) {
			if dnsDone || connectStart.IsZero() {
				connectStart = time.Now()
			}
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				connectEnd := time.Now()
				timing.TCPConnectTime = connectEnd.Sub(connectStart)
				connectDone = true
				lastPhaseEnd = connectEnd
			}
		},
		TLSHandshakeStart: func() {
			if connectDone {
				tlsHandshakeStart = time.Now()
			}
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil && !tlsHandshakeStart.IsZero() {
				tlsHandshakeEnd := time.Now()
				timing.TLSHandshakeTime = tlsHandshakeEnd.Sub(tlsHandshakeStart)
				lastPhaseEnd = tlsHandshakeEnd
			}
		},
		GotFirstResponseByte: func() {
			// Measured from the end of the last completed phase
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}
}
