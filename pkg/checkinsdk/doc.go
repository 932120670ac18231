// Package checkinsdk is a Go client for the check-in HTTP API, and the home
// of the request and response types the server encodes.
//
// A door station that cannot reach the database directly uses it to push
// scanned codes to the server:
//
//	c := checkinsdk.NewClient("http://checkin.local:8080")
//	c.Token = os.Getenv("CHECKIN_TOKEN")
//
//	sess, err := c.CreateSession(ctx)
//	res, err := c.Scan(ctx, sess.ID, scannedText)
//	fmt.Println(res.Outcome.Message)
package checkinsdk
