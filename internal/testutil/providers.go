package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// MasterManifest lists one rendition per quality tier with relative URIs.
const MasterManifest = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-STREAM-INF:BANDWIDTH=800000,RESOLUTION=384x216,CODECS="avc1.4d400d,mp4a.40.2"
216/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=1200000,RESOLUTION=512x288,CODECS="avc1.4d400d,mp4a.40.2"
288/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=1800000,RESOLUTION=640x360,CODECS="avc1.4d401e,mp4a.40.2"
360/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=2500000,RESOLUTION=896x504,CODECS="avc1.4d401f,mp4a.40.2"
504/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=3500000,RESOLUTION=960x540,CODECS="avc1.4d401f,mp4a.40.2"
540/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=5600000,RESOLUTION=1280x720,CODECS="avc1.4d401f,mp4a.40.2"
720/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=6600000,RESOLUTION=1280x720,FRAME-RATE=59.94,CODECS="avc1.4d4020,mp4a.40.2"
720p60/index.m3u8
`

// StreamServer fakes the stream provider: the redirect endpoint answers with
// a master URL for live playback ids and a placeholder otherwise, and every
// master URL serves Manifest.
type StreamServer struct {
	*httptest.Server

	RedirectCalls atomic.Int32
	ManifestCalls atomic.Int32

	mu       sync.Mutex
	live     map[string]bool
	manifest string
}

// NewStreamServer starts a TLS server that is closed on test cleanup.
func NewStreamServer(t *testing.T) *StreamServer {
	t.Helper()
	s := &StreamServer{live: make(map[string]bool), manifest: MasterManifest}
	s.Server = httptest.NewTLSServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// SetLive marks playback ids as live or not.
func (s *StreamServer) SetLive(live bool, ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.live[id] = live
	}
}

// SetManifest replaces the body served for master URLs.
func (s *StreamServer) SetManifest(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifest = body
}

// MasterURL is the master manifest location advertised for id.
func (s *StreamServer) MasterURL(id string) string {
	return s.URL + "/hls/" + id + "/master.m3u8"
}

func (s *StreamServer) serve(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/getM3U8.php":
		s.RedirectCalls.Add(1)
		id := r.URL.Query().Get("id")
		s.mu.Lock()
		live := s.live[id]
		s.mu.Unlock()
		if !live {
			_, _ = w.Write([]byte("Not available yet"))
			return
		}
		_, _ = w.Write([]byte(s.MasterURL(id) + "\n"))
	case strings.HasSuffix(r.URL.Path, "/master.m3u8"):
		s.ManifestCalls.Add(1)
		s.mu.Lock()
		body := s.manifest
		s.mu.Unlock()
		_, _ = w.Write([]byte(body))
	default:
		http.NotFound(w, r)
	}
}
