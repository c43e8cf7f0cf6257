package hotel

import "math"

const earthRadiusKM = 6371

// Venue точка, до которой считается расстояние в каталоге.
type Venue struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Set сообщает, что координаты площадки заданы.
func (v Venue) Set() bool {
	return v.Latitude != 0 || v.Longitude != 0
}

// Distance расстояние по формуле гаверсинусов в километрах с точностью до 0.1.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return math.Round(earthRadiusKM*c*10) / 10
}

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}
