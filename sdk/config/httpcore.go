// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

type CoreHTTP interface {
	BuildURL(resource, id string, params map[string]string) string
	Do(ctx context.Context, method, url string, data []byte) ([]byte, int, error)
}

type httpCore struct {
	httpClient *http.Client
	coConfig   CodeOceanConfig
}

func NewHTTPCore(httpClient *http.Client, coConfig CodeOceanConfig) CoreHTTP {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &httpCore{httpClient: httpClient, coConfig: coConfig}
}

func (httpCore *httpCore) BuildURL(resource, id string, params map[string]string) string {
	base := fmt.Sprintf("%s/api/%s", httpCore.coConfig.Domain, httpCore.coConfig.APIVersion)
	base += "/" + resource
	if id != "" {
		base += "/" + id
	}
	first := true
	for k, v := range params {
		if v == "" {
			continue
		}
		if first {
			base += "?"
			first = false
		} else {
			base += "&"
		}
		base += fmt.Sprintf("%s=%s", k, v)
	}
	return base
}

// Do issues the request and returns body + status. A non-2xx status is
// NOT an error here: the registration workflow prints the raw response
// and leaves status interpretation to the operator.
func (httpCore *httpCore) Do(ctx context.Context, method, url string, data []byte) ([]byte, int, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, 0, err
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Code Ocean authenticates with the API token as basic auth user
	if tok := httpCore.coConfig.Token; tok != "" {
		req.SetBasicAuth(tok, "")
	}

	resp, err := httpCore.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	b, rerr := io.ReadAll(resp.Body)
	return b, resp.StatusCode, rerr
}
