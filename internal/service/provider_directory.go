package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"silvercare/internal/domain"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

const earthRadiusKm = 6371.0

// staticProviders is served when Places is unavailable.
var staticProviders = []domain.Provider{
	{Name: "City Central Hospital", Role: "Hospital", DistanceKm: 1.2, OpenNow: true, Rating: 4.8},
	{Name: "Dr. Sharma Clinic", Role: "Doctor (Cardiology)", DistanceKm: 2.5, OpenNow: true, Rating: 4.5},
	{Name: "Apollo Pharmacy", Role: "Pharmacy", DistanceKm: 0.5, OpenNow: false, Rating: 4.2},
}

var providerSearchTypes = []struct {
	placeType maps.PlaceType
	role      string
}{
	{maps.PlaceTypeHospital, "Hospital"},
	{maps.PlaceTypeDoctor, "Doctor"},
	{maps.PlaceTypePharmacy, "Pharmacy"},
}

type placesSearcher interface {
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
}

// ProviderDirectory lists nearby hospitals, doctors and pharmacies.
type ProviderDirectory struct {
	places       placesSearcher // nil means static directory only
	radiusMeters uint
	perType      int
	logger       *zap.Logger
}

// NewProviderDirectory uses Google Places when apiKey is set.
func NewProviderDirectory(apiKey string, radiusMeters int, logger *zap.Logger) (*ProviderDirectory, error) {
	d := &ProviderDirectory{radiusMeters: uint(radiusMeters), perType: 5, logger: logger}
	if apiKey == "" {
		return d, nil
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create google maps client: %w", err)
	}
	d.places = client
	return d, nil
}

// Nearby never fails: any lookup problem degrades to the static directory.
func (d *ProviderDirectory) Nearby(ctx context.Context, lat, lng *float64) []domain.Provider {
	if d.places == nil || lat == nil || lng == nil {
		return cloneProviders(staticProviders)
	}

	origin := maps.LatLng{Lat: *lat, Lng: *lng}
	var out []domain.Provider
	for _, st := range providerSearchTypes {
		resp, err := d.places.NearbySearch(ctx, &maps.NearbySearchRequest{
			Location: &origin,
			Radius:   d.radiusMeters,
			Type:     st.placeType,
		})
		if err != nil {
			d.logger.Warn("places nearby search failed, using static directory",
				zap.String("type", string(st.placeType)), zap.Error(err))
			return cloneProviders(staticProviders)
		}
		for i, r := range resp.Results {
			if i >= d.perType {
				break
			}
			p := domain.Provider{
				Name:       r.Name,
				Role:       st.role,
				DistanceKm: roundKm(haversineKm(origin.Lat, origin.Lng, r.Geometry.Location.Lat, r.Geometry.Location.Lng)),
				Rating:     float64(r.Rating),
				Address:    r.Vicinity,
			}
			if r.OpeningHours != nil && r.OpeningHours.OpenNow != nil {
				p.OpenNow = *r.OpeningHours.OpenNow
			}
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return cloneProviders(staticProviders)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func roundKm(km float64) float64 {
	return math.Round(km*10) / 10
}

func cloneProviders(in []domain.Provider) []domain.Provider {
	out := make([]domain.Provider, len(in))
	copy(out, in)
	return out
}
