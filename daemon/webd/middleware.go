package webd

import (
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"

	ghandlers "github.com/gorilla/handlers"
)

// tokenAuthenticationMiddleware checks for a valid token on mutating
// routes. The expected value comes from the environment variable named
// by Config.TokenEnvVar; if that variable is unset, all requests pass.
// Clients send the token in the X-Transectd-Token header, or, for
// clients that can only set a URL, an api_token query param.
// eg. transect.example.org:3000/populate/?api_token=asdfasdfb
func (s *WebDaemon) tokenAuthenticationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		validToken := os.Getenv(s.Config.TokenEnvVar)
		if validToken == "" {
			log.Printf("WARN: No %s set, allowing all requests", s.Config.TokenEnvVar)
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("X-Transectd-Token")
		if token == "" {
			token = r.URL.Query().Get("api_token")
		}

		if token != validToken {
			log.Println("Invalid token",
				"token:", fmt.Sprintf("%q", token), "validToken:", "***REDACTED***",
				"method:", r.Method, "url:", r.URL, "proto:", r.Proto,
				"host:", r.Host, "remote-addr:", r.RemoteAddr,
				"request-URI:", r.RequestURI, "content-length:", r.ContentLength,
				"user-agent:", r.UserAgent())
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func permissiveCorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Add("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization, X-Transectd-Token")
		next.ServeHTTP(w, r)
	})
}

func contentTypeMiddlewareFunc(contentType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", contentType)
			next.ServeHTTP(w, r)
		})
	}
}

// https://github.com/gorilla/mux#middleware

// writeLog writes one access-log line per request in roughly Apache
// Common Log Format, with forwarding hops appended to the host.
// The URI is quote-escaped; devices put survey names in query params
// and field names carry anything.
func writeLog(writer io.Writer, params ghandlers.LogFormatterParams) {
	req := params.Request
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		host = req.RemoteAddr
	}
	for _, v := range req.Header.Values("X-Forwarded-For") {
		host += "->" + v
	}
	uri := req.RequestURI
	if uri == "" {
		uri = params.URL.RequestURI()
	}
	_, _ = fmt.Fprintf(writer, "%s [%s] %s %s %s %d %d\n",
		host, params.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
		req.Method, strconv.Quote(uri), req.Proto,
		params.StatusCode, params.Size)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return ghandlers.CustomLoggingHandler(os.Stdout, next, writeLog)
}
