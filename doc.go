// Package nyquest is a uniform HTTP client facade: programs build
// requests and read responses through one API, while the actual
// network work is performed by whichever platform backend was
// registered at startup (backend/libcurl, backend/winhttp or
// backend/nsurlsession).
//
// A program registers exactly one backend, once:
//
//	import (
//		"github.com/nyquest-go/nyquest"
//		"github.com/nyquest-go/nyquest/backend/libcurl"
//	)
//
//	func main() {
//		libcurl.Register()
//
//		client, err := nyquest.NewClientBuilder().
//			BaseURL("https://example.com").
//			UserAgent("my-app/1.0").
//			BuildBlocking()
//		if err != nil {
//			panic(err)
//		}
//		defer client.Close()
//
//		resp, err := client.Do(nyquest.Get("/status"))
//		if err != nil {
//			panic(err)
//		}
//		body, err := resp.Text()
//		if err != nil {
//			panic(err)
//		}
//		println(body)
//	}
package nyquest
