package feed

import (
	"math"

	"fotoroute/internal/model"
)

const earthRadiusKm = 6371.0

// ComputeStats derives route statistics from the photos in order.
//
// Distance sums great-circle legs between consecutive photos that carry
// coordinates (0,0 counts as missing). Countries counts distinct group keys
// other than the unknown sentinel. Days counts distinct calendar dates.
func ComputeStats(photos []model.Photo) model.Stats {
	st := model.Stats{PhotoCount: len(photos)}

	countries := map[string]struct{}{}
	days := map[string]struct{}{}
	var prev *model.Photo
	for i := range photos {
		p := &photos[i]
		if g := model.GroupKey(p.Location); g != model.UnknownGroup && g != "" {
			countries[g] = struct{}{}
		}
		if d := dayKey(*p); d != "" {
			days[d] = struct{}{}
		}
		if !hasCoords(*p) {
			continue
		}
		if prev != nil {
			st.TotalKm += Haversine(prev.Lat, prev.Lon, p.Lat, p.Lon)
		}
		prev = p
	}
	st.TotalKm = math.Round(st.TotalKm*10) / 10
	st.Countries = len(countries)
	st.Days = len(days)
	return st
}

func hasCoords(p model.Photo) bool {
	return p.Lat != 0 || p.Lon != 0
}

func dayKey(p model.Photo) string {
	if p.TakenAt != nil {
		return p.TakenAt.Format("2006-01-02")
	}
	return p.DateStr
}

// Haversine returns the great-circle distance in kilometres.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
