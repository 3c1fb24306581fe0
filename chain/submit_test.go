package chain

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSubmitTx(t *testing.T) {
	c := qt.New(t)

	var received []byte
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			c.Assert(r.Method, qt.Equals, "POST")
			c.Assert(r.URL.Path, qt.Equals, "/api/submit/tx")
			c.Assert(r.Header.Get("Content-Type"), qt.Equals, "application/cbor")
			var err error
			received, err = ioutil.ReadAll(r.Body)
			c.Assert(err, qt.IsNil)
			w.WriteHeader(http.StatusAccepted)
			c.Assert(json.NewEncoder(w).Encode("deadbeef"), qt.IsNil)
		}))
	defer srv.Close()

	client := NewSubmitClient(srv.URL)
	txID, err := client.SubmitTx([]byte{0x84, 0x01, 0x02})
	c.Assert(err, qt.IsNil)
	c.Assert(txID, qt.Equals, "deadbeef")
	c.Assert(received, qt.DeepEquals, []byte{0x84, 0x01, 0x02})
}

func TestSubmitTxError(t *testing.T) {
	c := qt.New(t)

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			c.Assert(json.NewEncoder(w).Encode(errorMsg{
				Message: "transaction rejected",
			}), qt.IsNil)
		}))
	defer srv.Close()

	client := NewSubmitClient(srv.URL)
	_, err := client.SubmitTx([]byte{0x84})
	c.Assert(err, qt.ErrorMatches, "transaction rejected")
}
