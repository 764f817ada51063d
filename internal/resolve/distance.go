package resolve

import "math"

const earthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance between two points in
// kilometers.
func HaversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ProximityScore rates how close two 5-digit ZIPs are by their shared digit
// prefix. Each matching leading position i contributes 10^(5-i); the first
// mismatching position contributes partial credit scaled by how numerically
// close the digits are, and scoring stops there. ZIP numbering follows USPS
// regional conventions, so a longer shared prefix approximates geographic
// adjacency. This is a documented heuristic for when no coordinates exist
// for the query ZIP, not a distance measure.
func ProximityScore(a, b string) int {
	score := 0
	for i := 0; i < 5 && i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			score += pow10(5 - i)
			continue
		}
		diff := int(a[i]) - int(b[i])
		if diff < 0 {
			diff = -diff
		}
		score += (10 - diff) * pow10(4-i)
		break
	}
	return score
}

func pow10(n int) int {
	p := 1
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}
