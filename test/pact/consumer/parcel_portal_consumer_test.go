//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/parcel-intake-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type parcelPayload struct {
	ParcelID          string  `json:"parcelId"`
	Weight            float64 `json:"weight"`
	Value             float64 `json:"value"`
	Recipient         string  `json:"recipient"`
	Department        string  `json:"department"`
	Status            string  `json:"status"`
	RequiresInsurance bool    `json:"requiresInsurance"`
	InsuranceApproved bool    `json:"insuranceApproved"`
}

type rulesPayload struct {
	Mail struct {
		MaxWeight float64 `json:"maxWeight"`
	} `json:"mail"`
	Regular struct {
		MaxWeight float64 `json:"maxWeight"`
	} `json:"regular"`
	Insurance struct {
		MinValue float64 `json:"minValue"`
		Enabled  bool    `json:"enabled"`
	} `json:"insurance"`
}

type metricsPayload struct {
	TotalParcels     int `json:"totalParcels"`
	Processed        int `json:"processed"`
	PendingInsurance int `json:"pendingInsurance"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func TestParcelPortalContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	example := pacttest.ExampleParcelPayload()
	parcelMatcher := matchers.Map{
		"parcelId":          matchers.S(pacttest.MailParcelID),
		"weight":            matchers.Like(example["weight"]),
		"value":             matchers.Like(example["value"]),
		"recipient":         matchers.Like(example["recipient"]),
		"department":        matchers.Term("mail", "mail|regular|heavy"),
		"status":            matchers.Term("pending", "pending|processing|insurance_review|completed|error"),
		"requiresInsurance": matchers.Like(false),
		"insuranceApproved": matchers.Like(false),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateParcelsExist).
		UponReceiving("a request to fetch an ingested parcel").
		WithRequest("GET", "/api/parcels/"+pacttest.MailParcelID).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(parcelMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateParcelMissing).
		UponReceiving("a request for a missing parcel").
		WithRequest("GET", "/api/parcels/"+pacttest.MissingParcelID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateDefaults).
		UponReceiving("a request for the active business rules").
		WithRequest("GET", "/api/business-rules").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"mail":    matchers.StructMatcher{"maxWeight": matchers.Like(1.0)},
				"regular": matchers.StructMatcher{"maxWeight": matchers.Like(10.0)},
				"insurance": matchers.StructMatcher{
					"minValue": matchers.Like(1000.0),
					"enabled":  matchers.Like(true),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateParcelsExist).
		UponReceiving("a request for dashboard metrics").
		WithRequest("GET", "/api/dashboard/metrics").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"totalParcels":     matchers.Like(2),
				"processed":        matchers.Like(1),
				"pendingInsurance": matchers.Like(1),
				"errors":           matchers.Like(0),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newPortalClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var parcel parcelPayload
		if err := client.getJSON(ctx, "/api/parcels/"+pacttest.MailParcelID, &parcel); err != nil {
			return fmt.Errorf("get parcel: %w", err)
		}
		if parcel.ParcelID != pacttest.MailParcelID {
			return fmt.Errorf("expected parcel %s, got %+v", pacttest.MailParcelID, parcel)
		}

		if err := client.getJSON(ctx, "/api/parcels/"+pacttest.MissingParcelID, &parcel); err == nil {
			return fmt.Errorf("expected 404 for parcel %s", pacttest.MissingParcelID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.status)
		}

		var rules rulesPayload
		if err := client.getJSON(ctx, "/api/business-rules", &rules); err != nil {
			return fmt.Errorf("get rules: %w", err)
		}
		if rules.Regular.MaxWeight <= rules.Mail.MaxWeight {
			return fmt.Errorf("unexpected rule thresholds %+v", rules)
		}

		var metrics metricsPayload
		if err := client.getJSON(ctx, "/api/dashboard/metrics", &metrics); err != nil {
			return fmt.Errorf("get metrics: %w", err)
		}
		if metrics.TotalParcels == 0 {
			return fmt.Errorf("expected parcels in metrics, got %+v", metrics)
		}
		return nil
	})
	require.NoError(t, err)
}

type portalClient struct {
	baseURL    string
	httpClient *http.Client
}

func newPortalClient(config pactconsumer.MockServerConfig) *portalClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &portalClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *portalClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
