package health

// FacilityKind groups nearby health services.
type FacilityKind string

const (
	KindDoctor   FacilityKind = "doctor"
	KindHospital FacilityKind = "hospital"
	KindPharmacy FacilityKind = "pharmacy"
)

// Facility is one nearby health service location.
type Facility struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Address  string       `json:"address"`
	Distance string       `json:"distance"`
	Kind     FacilityKind `json:"kind"`
}

// SeedFacilities returns the demo directory served by the services finder.
func SeedFacilities() []Facility {
	return []Facility{
		{ID: "doctor-1", Name: "City Clinic", Address: "123 Health St, Cityville", Distance: "1.2 mi", Kind: KindDoctor},
		{ID: "doctor-2", Name: "Dr. Emily Carter", Address: "456 Wellness Ave, Cityville", Distance: "2.5 mi", Kind: KindDoctor},
		{ID: "hospital-1", Name: "City General Hospital", Address: "789 Recovery Rd, Cityville", Distance: "3.1 mi", Kind: KindHospital},
		{ID: "pharmacy-1", Name: "HealthFirst Pharmacy", Address: "101 Prescription Pl, Cityville", Distance: "0.8 mi", Kind: KindPharmacy},
		{ID: "pharmacy-2", Name: "Med-Express", Address: "202 Pill Ln, Cityville", Distance: "1.5 mi", Kind: KindPharmacy},
	}
}
