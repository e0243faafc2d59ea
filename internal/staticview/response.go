package staticview

import (
	"html"
	"io"
	"io/ioutil"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gitlab.com/gitlab-org/gitlab-static/internal/httperrors"
	"gitlab.com/gitlab-org/gitlab-static/metrics"
)

// HeaderField is a single response header. Response headers are kept in
// the order they were added.
type HeaderField struct {
	Name  string
	Value string
}

// Response describes what the resolver answers to a request. Its Body
// must be closed by whoever consumes the Response; Send does so.
type Response struct {
	Status int
	Header []HeaderField
	Body   io.ReadCloser

	modTime         time.Time
	ifModifiedSince time.Time
	size            int64
}

// opener is implemented by bodies that defer opening the underlying file
type opener interface {
	Open() error
}

// Get returns the value of the first header named name
func (resp *Response) Get(name string) string {
	for _, field := range resp.Header {
		if strings.EqualFold(field.Name, name) {
			return field.Value
		}
	}

	return ""
}

// HeaderNames returns the names of all headers in order
func (resp *Response) HeaderNames() []string {
	names := make([]string, 0, len(resp.Header))
	for _, field := range resp.Header {
		names = append(names, field.Name)
	}

	return names
}

// NotModified reports whether the client's cached copy is current.
// Last-Modified has no sub-second precision, so the file's mtime is
// truncated before the comparison.
func (resp *Response) NotModified() bool {
	if resp.Status != http.StatusOK || resp.ifModifiedSince.IsZero() || resp.modTime.IsZero() {
		return false
	}

	return !resp.modTime.Truncate(time.Second).After(resp.ifModifiedSince)
}

// Close releases the body. It is safe to call more than once.
func (resp *Response) Close() error {
	if resp.Body == nil {
		return nil
	}

	return resp.Body.Close()
}

// Send writes the response to w and closes the body on every path.
// A 304 is decided here, at send time, so the file is never opened for a
// client whose copy is current, nor for a HEAD request.
func (resp *Response) Send(w http.ResponseWriter, r *http.Request) (err error) {
	defer func() {
		if cerr := resp.Close(); err == nil {
			err = cerr
		}
	}()

	if resp.NotModified() {
		writeNotModified(w, resp)
		return nil
	}

	withBody := r.Method != http.MethodHead && resp.Body != nil

	if o, ok := resp.Body.(opener); ok && withBody {
		if err := o.Open(); err != nil {
			// the file vanished or became unreadable after it was matched
			fallback := internalErrorResponse()
			if isNotFound(err) {
				fallback = notFoundResponse()
			}

			if sendErr := fallback.Send(w, r); sendErr != nil {
				return sendErr
			}

			return &openError{err: err}
		}
	}

	h := w.Header()
	for _, field := range resp.Header {
		h.Set(field.Name, field.Value)
	}

	metrics.StaticResponses.WithLabelValues(strconv.Itoa(resp.Status)).Inc()
	w.WriteHeader(resp.Status)

	if !withBody {
		return nil
	}

	if resp.Status == http.StatusOK {
		metrics.ServedFileSize.Observe(float64(resp.size))
	}

	_, err = io.Copy(w, resp.Body)
	return err
}

func writeNotModified(w http.ResponseWriter, resp *Response) {
	// RFC 7232 section 4.1: no representation metadata on a 304, only the
	// fields guiding cache updates
	if cacheControl := resp.Get("Cache-Control"); cacheControl != "" {
		w.Header().Set("Cache-Control", cacheControl)
	}

	metrics.StaticResponses.WithLabelValues(strconv.Itoa(http.StatusNotModified)).Inc()
	w.WriteHeader(http.StatusNotModified)
}

func notFoundResponse() *Response {
	return &Response{
		Status: http.StatusNotFound,
		Body:   ioutil.NopCloser(strings.NewReader(httperrors.PageHTML(http.StatusNotFound))),
	}
}

func internalErrorResponse() *Response {
	return &Response{
		Status: http.StatusInternalServerError,
		Body:   ioutil.NopCloser(strings.NewReader(httperrors.PageHTML(http.StatusInternalServerError))),
	}
}

func redirectResponse(location string) *Response {
	body := "<a href=\"" + html.EscapeString(location) + "\">" + http.StatusText(http.StatusMovedPermanently) + "</a>.\n"

	return &Response{
		Status: http.StatusMovedPermanently,
		Header: []HeaderField{
			{Name: "Location", Value: location},
			{Name: "Content-Type", Value: "text/html; charset=utf-8"},
		},
		Body: ioutil.NopCloser(strings.NewReader(body)),
	}
}
