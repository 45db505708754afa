package vision

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// 自行宣告 Accept-Encoding 時 net/http 不會自動解壓
const acceptEncoding = "gzip, deflate, br, zstd"

// 只負責解壓；若 Content-Encoding 缺失則用 magic 猜測
func decompressOnly(raw []byte, h http.Header) ([]byte, error) {
	enc := strings.ToLower(strings.TrimSpace(h.Get("Content-Encoding")))
	switch enc {
	case "gzip":
		return gunzipBytes(raw)
	case "deflate":
		return inflateZlibBytes(raw)
	case "zstd":
		return zstdBytes(raw)
	case "br":
		return brotliBytes(raw)
	default:
		if isGzip(raw) {
			return gunzipBytes(raw)
		}
		if isZstd(raw) {
			return zstdBytes(raw)
		}
		return raw, nil
	}
}

func gunzipBytes(b []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func inflateZlibBytes(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func zstdBytes(b []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(b, nil)
}

func brotliBytes(b []byte) ([]byte, error) {
	return io.ReadAll(brotli.NewReader(bytes.NewReader(b)))
}

func isGzip(b []byte) bool { return len(b) > 2 && b[0] == 0x1f && b[1] == 0x8b }

func isZstd(b []byte) bool {
	return len(b) >= 4 && b[0] == 0x28 && b[1] == 0xB5 && b[2] == 0x2F && b[3] == 0xFD
}

func trimBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 1000 {
		return s[:1000] + "..."
	}
	return s
}
