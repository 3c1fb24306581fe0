package chain

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
)

// SubmitClient posts raw signed transactions to a submit-api compatible
// HTTP endpoint, as an alternative to submitting through the CLI binary
type SubmitClient struct {
	url string
	c   *http.Client
}

// NewSubmitClient returns a new SubmitClient for the given submitURL
func NewSubmitClient(submitURL string) *SubmitClient {
	httpClient := &http.Client{}
	return &SubmitClient{
		url: submitURL,
		c:   httpClient,
	}
}

type errorMsg struct {
	Message string `json:"message"`
}

// SubmitTx sends the raw transaction and returns the transaction id
// reported by the endpoint
func (c *SubmitClient) SubmitTx(rawTx []byte) (string, error) {
	resp, err := c.c.Post(c.url+"/api/submit/tx", "application/cbor",
		bytes.NewBuffer(rawTx))
	if err != nil {
		return "", err
	}

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		var errMsg errorMsg
		if err = json.Unmarshal(body, &errMsg); err == nil && errMsg.Message != "" {
			return "", errors.New(errMsg.Message)
		}
		return "", errors.New(string(body))
	}

	var txID string
	if err = json.Unmarshal(body, &txID); err != nil {
		return "", err
	}
	return txID, nil
}

// HTTPSubmitter is a Client whose queries go through the wrapped Client
// while Submit goes through a submit-api endpoint instead
type HTTPSubmitter struct {
	Client
	submit *SubmitClient
}

// NewHTTPSubmitter wraps the given Client, routing Submit through submit
func NewHTTPSubmitter(inner Client, submit *SubmitClient) *HTTPSubmitter {
	return &HTTPSubmitter{Client: inner, submit: submit}
}

// Submit posts the raw signed transaction to the submit-api endpoint
func (s *HTTPSubmitter) Submit(rawTx []byte) error {
	_, err := s.submit.SubmitTx(rawTx)
	return err
}
