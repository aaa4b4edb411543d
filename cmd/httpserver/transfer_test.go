//go:build integration

package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/HeitorAzevedoBelo/desafio-backend/internal/domain"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/integrationtest"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/integrationtest/helpers"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/configpkg"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/web"
)

type externalServices struct {
	authorized atomic.Bool
	notified   atomic.Int32
	notifyCode atomic.Int32
}

// startExternalServices runs test doubles for the authorization and notification services.
func startExternalServices(t *testing.T) (*externalServices, func(*configpkg.Config)) {
	t.Helper()

	s := &externalServices{}
	s.authorized.Store(true)
	s.notifyCode.Store(http.StatusNoContent)

	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if !s.authorized.Load() {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"status":"fail","data":{"authorization":false}}`))

			return
		}

		_, _ = w.Write([]byte(`{"status":"success","data":{"authorization":true}}`))
	}))
	t.Cleanup(authSrv.Close)

	notifySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.notified.Add(1)
		w.WriteHeader(int(s.notifyCode.Load()))
	}))
	t.Cleanup(notifySrv.Close)

	return s, func(c *configpkg.Config) {
		c.AuthorizerURL = authSrv.URL
		c.AuthorizerTimeout = time.Second
		c.NotifierURL = notifySrv.URL
		c.NotifierTimeout = time.Second
	}
}

func TestCreateTransferAPI(t *testing.T) {
	services, withServices := startExternalServices(t)
	server := integrationtest.SetupServer(t, withServices)

	payer := helpers.SeedUserWithBalance(t, server.DB, "100.00", false)
	payee := helpers.SeedSeller(t, server.DB)
	seller := helpers.SeedSeller(t, server.DB)

	testCases := []struct {
		name           string
		requestBody    string
		setup          func()
		wantStatusCode int
		wantError      string
		wantPayer      string
		wantPayee      string
		wantNotified   int32
	}{
		{
			name:           "OK",
			requestBody:    body(payee.ID, payer.ID, "10.50"),
			wantStatusCode: http.StatusOK,
			wantPayer:      "89.50",
			wantPayee:      "1010.50",
			wantNotified:   1,
		},
		{
			name:           "NotificationFailureKeepsTransfer",
			requestBody:    body(payee.ID, payer.ID, "9.50"),
			setup:          func() { services.notifyCode.Store(http.StatusGatewayTimeout) },
			wantStatusCode: http.StatusOK,
			wantPayer:      "80.00",
			wantPayee:      "1020.00",
			wantNotified:   1,
		},
		{
			name:           "Denied",
			requestBody:    body(payee.ID, payer.ID, "1"),
			setup:          func() { services.authorized.Store(false) },
			wantStatusCode: http.StatusUnauthorized,
			wantError:      domain.ErrUnauthorized.Error(),
			wantPayer:      "80.00",
			wantPayee:      "1020.00",
		},
		{
			name:           "InsufficientBalance",
			requestBody:    body(payee.ID, payer.ID, "80.01"),
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInsufficientBalance.Error(),
			wantPayer:      "80.00",
			wantPayee:      "1020.00",
		},
		{
			name:           "SellerCannotPay",
			requestBody:    body(payer.ID, seller.ID, "1"),
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrSellerCannotPay.Error(),
			wantPayer:      "80.00",
			wantPayee:      "1020.00",
		},
		{
			name:           "SameParty",
			requestBody:    body(payer.ID, payer.ID, "1"),
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrSameParty.Error(),
			wantPayer:      "80.00",
			wantPayee:      "1020.00",
		},
		{
			name:           "NonPositive",
			requestBody:    body(payee.ID, payer.ID, "0"),
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrNonPositiveAmount.Error(),
			wantPayer:      "80.00",
			wantPayee:      "1020.00",
		},
		{
			name:           "PayeeNotFound",
			requestBody:    body(payee.ID+1000, payer.ID, "1"),
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrPayeeNotFound.Error(),
			wantPayer:      "80.00",
			wantPayee:      "1020.00",
		},
		{
			name:           "MissingValue",
			requestBody:    `{"payee": 1, "payer": 2}`,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "missing field: value",
			wantPayer:      "80.00",
			wantPayee:      "1020.00",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			services.authorized.Store(true)
			services.notifyCode.Store(http.StatusNoContent)
			services.notified.Store(0)

			if tc.setup != nil {
				tc.setup()
			}

			req, err := http.NewRequest(http.MethodPost, "/transfer", bytes.NewReader([]byte(tc.requestBody)))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)
			server.Wait()

			if got := w.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			if tc.wantStatusCode == http.StatusOK {
				var res struct {
					Data struct {
						Transfer domain.Transfer `json:"transfer"`
					} `json:"data"`
				}

				if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
					t.Fatalf("Decoding response body error: %v", err)
				}

				var reqBody struct {
					Payee int64       `json:"payee"`
					Payer int64       `json:"payer"`
					Value json.Number `json:"value"`
				}
				_ = json.Unmarshal([]byte(tc.requestBody), &reqBody)

				want := domain.Transfer{
					Payee:     reqBody.Payee,
					Payer:     reqBody.Payer,
					Value:     reqBody.Value.String(),
					CreatedAt: time.Now().UTC(),
				}

				ignoreID := cmpopts.IgnoreFields(domain.Transfer{}, "ID")
				compareCreatedAt := cmpopts.EquateApproxTime(5 * time.Second)

				if diff := cmp.Diff(want, res.Data.Transfer, ignoreID, compareCreatedAt); diff != "" {
					t.Errorf("res.Data.Transfer mismatch (-want +got):\n%s", diff)
				}
			} else {
				var res web.JSONError
				if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
					t.Fatalf("Decoding response body error: %v", err)
				}

				if res.Error != tc.wantError {
					t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
				}
			}

			if got := helpers.Balance(t, server.DB, payer.ID); got != tc.wantPayer {
				t.Errorf("payer balance = %v, want %v", got, tc.wantPayer)
			}

			if got := helpers.Balance(t, server.DB, payee.ID); got != tc.wantPayee {
				t.Errorf("payee balance = %v, want %v", got, tc.wantPayee)
			}

			if got := services.notified.Load(); got != tc.wantNotified {
				t.Errorf("notifications sent = %v, want %v", got, tc.wantNotified)
			}
		})
	}
}

func TestCreateTransferAuthorizerDown(t *testing.T) {
	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer authSrv.Close()

	server := integrationtest.SetupServer(t, func(c *configpkg.Config) {
		c.AuthorizerURL = authSrv.URL
		c.NotifierURL = authSrv.URL
	})

	payer := helpers.SeedUser(t, server.DB)
	payee := helpers.SeedUser(t, server.DB)

	req, err := http.NewRequest(http.MethodPost, "/transfer", bytes.NewReader([]byte(body(payee.ID, payer.ID, "1"))))
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if got := w.Code; got != http.StatusServiceUnavailable {
		t.Errorf("Status code: got %v, want %v", got, http.StatusServiceUnavailable)
	}

	if n := helpers.CountTransfers(t, server.DB); n != 0 {
		t.Errorf("ledger has %d rows, want 0", n)
	}
}

func body(payee, payer int64, value string) string {
	b, _ := json.Marshal(map[string]any{
		"payee": payee,
		"payer": payer,
		"value": json.Number(value),
	})

	return string(b)
}
