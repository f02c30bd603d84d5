/*
Copyright 2026 The KubeEdge Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

   http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package metadata

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when the metadata service answers 404
var ErrNotFound = errors.New("metadata: not found")

// StatusError is a non-2xx answer other than 404.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("metadata: %s %s returned %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// retryable reports whether a request that failed with err is worth repeating.
// Client errors other than throttling are final.
func retryable(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= http.StatusInternalServerError || se.StatusCode == http.StatusTooManyRequests
	}
	return true
}
