package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

var (
	errNoData         = errors.New("no 'data' field in request")
	errInvalidPayload = errors.New("invalid payload")
	errDataNotString  = errors.New("'data' must be a string")
	errBadMetricsType = errors.New("'metrics' must be a string or a list of strings")
)

type invocationRequest struct {
	data       string
	metrics    []string
	hasMetrics bool
}

// parseRequest reads a JSON or form body. A single metric may be sent as a plain string
func parseRequest(c *gin.Context) (invocationRequest, error) {
	if strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		body, err := c.GetRawData()
		if err != nil {
			return invocationRequest{}, errInvalidPayload
		}

		return parseJSONRequest(body)
	}

	return parseFormRequest(c)
}

func parseJSONRequest(body []byte) (invocationRequest, error) {
	if !gjson.ValidBytes(body) {
		return invocationRequest{}, errInvalidPayload
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return invocationRequest{}, errInvalidPayload
	}

	data := parsed.Get("data")
	if !data.Exists() {
		return invocationRequest{}, errNoData
	}
	if data.Type != gjson.String {
		return invocationRequest{}, errDataNotString
	}

	req := invocationRequest{
		data: data.String(),
	}

	metrics := parsed.Get("metrics")
	if !metrics.Exists() {
		return req, nil
	}

	req.hasMetrics = true
	switch {
	case metrics.Type == gjson.String:
		req.metrics = []string{metrics.String()}
	case metrics.IsArray():
		req.metrics = make([]string, 0)
		for _, m := range metrics.Array() {
			if m.Type != gjson.String {
				return invocationRequest{}, errBadMetricsType
			}
			req.metrics = append(req.metrics, m.String())
		}
	default:
		return invocationRequest{}, errBadMetricsType
	}

	return req, nil
}

func parseFormRequest(c *gin.Context) (invocationRequest, error) {
	data, found := c.GetPostForm("data")
	if !found {
		return invocationRequest{}, errNoData
	}

	req := invocationRequest{
		data: data,
	}
	req.metrics, req.hasMetrics = c.GetPostFormArray("metrics")

	return req, nil
}
