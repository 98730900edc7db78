// Package depot provides a client for a depot server over TCP.
//
// Example:
//
//	client, err := depot.Connect(depot.WithPort(6969))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Set([]byte("foo"), []byte("bar"))
//	val, found, err := client.Get([]byte("foo"))
package depot
