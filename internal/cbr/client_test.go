package cbr_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/cbr"
)

const dailyRatesXML = `<?xml version="1.0" encoding="windows-1251"?>
<ValCurs Date="15.10.2026" name="Foreign Currency Market">
<Valute ID="R01235"><NumCode>840</NumCode><CharCode>USD</CharCode><Nominal>1</Nominal><Name>Доллар США</Name><Value>92,5058</Value><VunitRate>92,5058</VunitRate></Valute>
<Valute ID="R01239"><NumCode>978</NumCode><CharCode>EUR</CharCode><Nominal>1</Nominal><Name>Евро</Name><Value>100,1</Value><VunitRate>100,1</VunitRate></Valute>
<Valute ID="R01375"><NumCode>156</NumCode><CharCode>CNY</CharCode><Nominal>10</Nominal><Name>Китайских юаней</Name><Value>127,5</Value><VunitRate>12,75</VunitRate></Valute>
</ValCurs>`

func encode1251(t *testing.T, s string) []byte {
	t.Helper()
	out, err := charmap.Windows1251.NewEncoder().String(s)
	require.NoError(t, err)
	return []byte(out)
}

func TestParseDailyRates(t *testing.T) {
	t.Run("decodes windows-1251 document into unit rates", func(t *testing.T) {
		snapshot, err := cbr.ParseDailyRates(encode1251(t, dailyRatesXML))

		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), snapshot.Date)
		require.Len(t, snapshot.Rates, 3)
		assert.Equal(t, 92.5058, snapshot.Rates["USD"].Rate)
		assert.Equal(t, "Доллар США", snapshot.Rates["USD"].Name)
		assert.Equal(t, 100.1, snapshot.Rates["EUR"].Rate)
		assert.Equal(t, 12.75, snapshot.Rates["CNY"].Rate, "value is divided by nominal")
	})

	t.Run("empty document is an error", func(t *testing.T) {
		_, err := cbr.ParseDailyRates([]byte(`<?xml version="1.0" encoding="utf-8"?><ValCurs Date="15.10.2026"></ValCurs>`))

		assert.Error(t, err)
	})

	t.Run("bad value is an error", func(t *testing.T) {
		doc := `<?xml version="1.0" encoding="utf-8"?><ValCurs Date="15.10.2026"><Valute ID="R1"><CharCode>USD</CharCode><Nominal>1</Nominal><Value>n/a</Value></Valute></ValCurs>`

		_, err := cbr.ParseDailyRates([]byte(doc))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "USD")
	})

	t.Run("zero nominal is an error", func(t *testing.T) {
		doc := `<?xml version="1.0" encoding="utf-8"?><ValCurs Date="15.10.2026"><Valute ID="R1"><CharCode>USD</CharCode><Nominal>0</Nominal><Value>90,1</Value></Valute></ValCurs>`

		_, err := cbr.ParseDailyRates([]byte(doc))

		assert.Error(t, err)
	})

	t.Run("unsupported charset is an error", func(t *testing.T) {
		doc := `<?xml version="1.0" encoding="koi8-r"?><ValCurs></ValCurs>`

		_, err := cbr.ParseDailyRates([]byte(doc))

		assert.Error(t, err)
	})
}

func TestRatesClient_FetchRates(t *testing.T) {
	t.Run("fetches and parses the feed", func(t *testing.T) {
		body := encode1251(t, dailyRatesXML)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/xml; charset=windows-1251")
			_, _ = w.Write(body)
		}))
		defer server.Close()

		snapshot, err := cbr.NewRatesClient(server.URL).FetchRates(context.Background())

		require.NoError(t, err)
		assert.Len(t, snapshot.Rates, 3)
		assert.False(t, snapshot.FetchedAt.IsZero())
	})

	t.Run("non 200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := cbr.NewRatesClient(server.URL).FetchRates(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})
}
