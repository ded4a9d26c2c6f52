package signals

import (
	"math"
	"time"

	"github.com/bobmcallan/tickerscope/internal/models"
)

var baseDate = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// seriesFromCloses builds bars with a fixed ±spread around each close
func seriesFromCloses(closes []float64, spread float64) models.PriceSeries {
	out := make(models.PriceSeries, len(closes))
	for i, c := range closes {
		out[i] = models.PricePoint{
			Timestamp: baseDate.AddDate(0, 0, i),
			Open:      c,
			High:      c + spread,
			Low:       c - spread,
			Close:     c,
			Volume:    int64(1000 + i),
		}
	}
	return out
}

// risingSeries climbs linearly from 100 to 160 over n bars
func risingSeries(n int) models.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)*60/float64(n-1)
	}
	return seriesFromCloses(closes, 0.5)
}

// wavySeries oscillates so every indicator sees both gains and losses
func wavySeries(n int) models.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/3) + float64(i)*0.1
	}
	return seriesFromCloses(closes, 1.5)
}

func flatSeries(n int, price float64) models.PriceSeries {
	out := make(models.PriceSeries, n)
	for i := range out {
		out[i] = models.PricePoint{
			Timestamp: baseDate.AddDate(0, 0, i),
			Open:      price, High: price, Low: price, Close: price,
			Volume: 500,
		}
	}
	return out
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
