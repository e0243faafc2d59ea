package httperrors

import (
	"fmt"
	"net/http"
	"strconv"
)

type content struct {
	status       int
	title        string
	statusString string
	header       string
}

var (
	content404 = content{
		http.StatusNotFound,
		"Not Found (404)",
		"404",
		"The resource could not be found.",
	}
	content405 = content{
		http.StatusMethodNotAllowed,
		"Method Not Allowed (405)",
		"405",
		"The method is not allowed for the requested URL.",
	}
	content414 = content{
		http.StatusRequestURITooLong,
		"Request URI Too Long (414)",
		"414",
		"The URI provided was too long for the server to process.",
	}
	content500 = content{
		http.StatusInternalServerError,
		"Something went wrong (500)",
		"500",
		"Whoops, something went wrong on our end.",
	}
)

const predefinedErrorPage = `<!DOCTYPE html>
<html>
<head><title>%v</title></head>
<body>
  <h1>%v</h1>
  <p>%v</p>
</body>
</html>
`

func generateErrorHTML(c content) string {
	return fmt.Sprintf(predefinedErrorPage, c.title, c.statusString, c.header)
}

func serveErrorPage(w http.ResponseWriter, c content) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(c.status)
	fmt.Fprint(w, generateErrorHTML(c))
}

var pages = map[int]content{
	http.StatusNotFound:            content404,
	http.StatusMethodNotAllowed:    content405,
	http.StatusRequestURITooLong:   content414,
	http.StatusInternalServerError: content500,
}

// PageHTML returns the body of the error page for status, for callers
// that assemble the response themselves
func PageHTML(status int) string {
	c, ok := pages[status]
	if !ok {
		c = content{
			status:       status,
			title:        http.StatusText(status),
			statusString: strconv.Itoa(status),
			header:       http.StatusText(status),
		}
	}

	return generateErrorHTML(c)
}

// Serve404 returns a 404 error response / HTML page to the http.ResponseWriter
func Serve404(w http.ResponseWriter) {
	serveErrorPage(w, content404)
}

// Serve405 returns a 405 error response / HTML page to the http.ResponseWriter
func Serve405(w http.ResponseWriter) {
	serveErrorPage(w, content405)
}

// Serve414 returns a 414 error response / HTML page to the http.ResponseWriter
func Serve414(w http.ResponseWriter) {
	serveErrorPage(w, content414)
}
