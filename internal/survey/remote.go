package survey

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var httpClient = &http.Client{
	Timeout: 12 * time.Second,
}

// Fetch downloads a survey export over HTTP, retrying transient failures
// with exponential backoff. Client errors are permanent.
func Fetch(url string) ([]byte, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second

	var body []byte
	operation := func() error {
		resp, err := httpClient.Get(url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("fetch %s: %s", url, resp.Status)
		}
		if resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("fetch %s: %s", url, resp.Status))
		}
		body, err = io.ReadAll(resp.Body)
		return err
	}
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}
	return body, nil
}
