package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
)

func testConfig(baseURL string) ClientConfig {
	config := DefaultClientConfig(baseURL)
	config.Timeout = 5 * time.Second
	config.RetryCount = 2
	config.RetryWait = time.Millisecond
	config.RetryMaxWait = 5 * time.Millisecond
	config.PageSize = 1
	return config
}

type fakeService struct {
	mux      *http.ServeMux
	sawToken atomic.Bool
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	f := &fakeService{mux: http.NewServeMux()}

	bloodTypePages := []string{
		`{"id":1,"typeName":"O_NEG","components":[{"componentId":3,"componentName":"PLASMA"}],"canDonateTo":"1, 2 ,3","canReceiveFrom":"1"}`,
		`{"id":2,"typeName":"A_POS","components":[],"canDonateTo":"2,999","canReceiveFrom":"1,2"}`,
		`{"id":3,"typeName":"AB_POS","components":[],"canDonateTo":"3","canReceiveFrom":""}`,
	}
	f.mux.HandleFunc("/blood-types", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer secret" {
			f.sawToken.Store(true)
		}
		number, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if number >= len(bloodTypePages) {
			http.Error(w, "no such page", http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"content":[%s],"totalPages":%d,"number":%d}`, bloodTypePages[number], len(bloodTypePages), number)
	})
	f.mux.HandleFunc("/blood-components", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"componentId":3,"componentName":"PLASMA"},{"componentId":4,"componentName":"PLATELETS"}]`)
	})
	f.mux.HandleFunc("/inventory", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":[
			{"id":1,"bloodTypeId":1,"bloodComponentId":3,"quantity":25,"addedDate":"2024-01-01","expiryDate":"2024-01-20T08:00:00"},
			{"id":2,"bloodTypeId":2,"bloodComponentId":4,"quantity":400,"addedDate":"2024-01-01","expiryDate":""},
			{"id":3,"bloodTypeId":2,"bloodComponentId":4,"quantity":5,"addedDate":"2024-01-01","expiryDate":"soon"}
		],"totalPages":1,"number":0}`)
	})
	f.mux.HandleFunc("/extractions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":[{"id":9,"extractedAt":"2024-01-05T10:00:00Z","units":[{"inventoryUnitId":1,"volume":200}]}],"totalPages":1,"number":0}`)
	})
	return f
}

func TestClient_Fetch(t *testing.T) {
	fake := newFakeService(t)
	server := httptest.NewServer(fake.mux)
	defer server.Close()

	client := NewClient(testConfig(server.URL), StaticToken("secret"), nil)
	snapshot, err := client.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, snapshot.BloodTypes, 3)
	assert.Equal(t, "O_NEG", snapshot.BloodTypes[0].TypeName)
	assert.Equal(t, "AB_POS", snapshot.BloodTypes[2].TypeName, "pages must be assembled in order")
	assert.Equal(t, []entities.BloodTypeID{1, 2, 3}, snapshot.BloodTypes[0].CanDonateTo)
	assert.Equal(t, []entities.BloodTypeID{2, 999}, snapshot.BloodTypes[1].CanDonateTo)
	assert.Empty(t, snapshot.BloodTypes[2].CanReceiveFrom)
	assert.True(t, snapshot.BloodTypes[0].HasComponent(3))

	assert.Len(t, snapshot.Components, 2)

	require.Len(t, snapshot.Units, 3)
	assert.Equal(t, time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC), snapshot.Units[0].ExpiryDate)
	assert.Equal(t, entities.DefaultExpiryDate(snapshot.Units[1].AddedDate), snapshot.Units[1].ExpiryDate)
	assert.True(t, snapshot.Units[2].ExpiryDate.IsZero(), "unparseable expiry stays unknown")

	require.Len(t, snapshot.Extractions, 1)
	assert.Equal(t, entities.Milliliters(200), snapshot.Extractions[0].TotalVolume())

	assert.True(t, fake.sawToken.Load(), "bearer token was not sent")
}

func TestClient_Fetch_StatusError(t *testing.T) {
	fake := newFakeService(t)
	fake.mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	server := httptest.NewServer(fake.mux)
	defer server.Close()

	config := testConfig(server.URL)
	config.Paths.Inventory = "/missing"
	_, err := NewClient(config, nil, nil).Fetch(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "/missing", statusErr.Path)
	assert.False(t, statusErr.Temporary())
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `[{"componentId":1,"componentName":"WHOLE_BLOOD"}]`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, nil)
	items, err := fetchAll[componentDTO](context.Background(), client, "/flaky")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int32(2), calls.Load())
}

type failingTokens struct{}

func (failingTokens) Token(context.Context) (string, error) {
	return "", errors.New("token expired")
}

func TestClient_TokenError(t *testing.T) {
	server := httptest.NewServer(newFakeService(t).mux)
	defer server.Close()

	_, err := NewClient(testConfig(server.URL), failingTokens{}, nil).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
}

func TestClient_SkipsExtractionsWithoutPath(t *testing.T) {
	server := httptest.NewServer(newFakeService(t).mux)
	defer server.Close()

	config := testConfig(server.URL)
	config.Paths.Extractions = ""
	snapshot, err := NewClient(config, nil, nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snapshot.Extractions)
	assert.Empty(t, snapshot.Extractions)
}

func TestDecodePage(t *testing.T) {
	testCases := []struct {
		name      string
		body      string
		wantItems int
		wantPages int
		wantErr   bool
	}{
		{"envelope", `{"content":[{"componentId":1}],"totalPages":4,"number":0}`, 1, 4, false},
		{"bare array", ` [{"componentId":1},{"componentId":2}]`, 2, 1, false},
		{"null content", `{"content":null,"totalPages":0}`, 0, 0, false},
		{"garbage", `<html>`, 0, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			items, pages, err := decodePage[componentDTO]([]byte(tc.body))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, items, tc.wantItems)
			assert.Equal(t, tc.wantPages, pages)
		})
	}
}
