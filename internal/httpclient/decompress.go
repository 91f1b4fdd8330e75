package httpclient

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

const (
	headerAcceptEncoding  = "Accept-Encoding"
	headerContentEncoding = "Content-Encoding"
	acceptEncodingValue   = "gzip, deflate, br"

	encodingGzip    = "gzip"
	encodingDeflate = "deflate"
	encodingBrotli  = "br"
)

type decodingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

func (t *decodingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(headerAcceptEncoding) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(headerAcceptEncoding, acceptEncodingValue)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil || resp == nil || resp.Body == nil {
		return resp, err
	}

	body, decoded := t.wrap(resp)
	if decoded {
		resp.Body = body
		resp.Header.Del(headerContentEncoding)
		resp.Header.Del("Content-Length")
		resp.ContentLength = -1
		resp.Uncompressed = true
	}
	return resp, nil
}

func (t *decodingTransport) wrap(resp *http.Response) (io.ReadCloser, bool) {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get(headerContentEncoding)))
	switch encoding {
	case "":
		return resp.Body, false
	case encodingGzip:
		reader, err := gzip.NewReader(resp.Body)
		if err != nil {
			if t.logger != nil {
				t.logger.Warn("failed to create gzip reader, returning raw body", "error", err)
			}
			return resp.Body, false
		}
		return &decompressReader{reader: reader, closer: resp.Body}, true
	case encodingDeflate:
		reader, err := deflateReader(resp.Body)
		if err != nil {
			if t.logger != nil {
				t.logger.Warn("failed to create deflate reader, returning raw body", "error", err)
			}
			return resp.Body, false
		}
		return &decompressReader{reader: reader, closer: resp.Body}, true
	case encodingBrotli:
		return &decompressReader{reader: brotli.NewReader(resp.Body), closer: resp.Body}, true
	default:
		if t.logger != nil {
			t.logger.Debug("unknown content encoding, returning raw body", "encoding", encoding)
		}
		return resp.Body, false
	}
}

// deflateReader decodes zlib-wrapped deflate and falls back to raw deflate
// for servers that omit the zlib header.
func deflateReader(body io.Reader) (io.Reader, error) {
	br := bufio.NewReader(body)
	header, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if isZlibHeader(header) {
		return zlib.NewReader(br)
	}
	return flate.NewReader(br), nil
}

func isZlibHeader(b []byte) bool {
	if len(b) < 2 || b[0]&0x0f != 8 || b[0]>>4 > 7 {
		return false
	}
	return (uint16(b[0])<<8|uint16(b[1]))%31 == 0
}

// decompressReader closes both the decoder and the underlying body.
type decompressReader struct {
	reader io.Reader
	closer io.Closer
}

func (d *decompressReader) Read(p []byte) (int, error) {
	return d.reader.Read(p)
}

func (d *decompressReader) Close() error {
	if closer, ok := d.reader.(io.Closer); ok {
		_ = closer.Close()
	}
	return d.closer.Close()
}
