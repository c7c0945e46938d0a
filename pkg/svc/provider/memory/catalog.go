package memory

import "github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"

// DefaultCatalog returns the regions served by the sandbox when none are seeded.
// Identifiers and display names follow the public Google Cloud region list the
// gcping client page was originally built for.
func DefaultCatalog() []v1alpha1.Region {
	return []v1alpha1.Region{
		{ID: "asia-east1", DisplayName: "Taiwan"},
		{ID: "asia-northeast1", DisplayName: "Tokyo"},
		{ID: "asia-south1", DisplayName: "Mumbai"},
		{ID: "asia-southeast1", DisplayName: "Singapore"},
		{ID: "australia-southeast1", DisplayName: "Sydney"},
		{ID: "europe-north1", DisplayName: "Finland"},
		{ID: "europe-west1", DisplayName: "Belgium"},
		{ID: "europe-west2", DisplayName: "London"},
		{ID: "europe-west3", DisplayName: "Frankfurt"},
		{ID: "northamerica-northeast1", DisplayName: "Montréal"},
		{ID: "southamerica-east1", DisplayName: "São Paulo"},
		{ID: "us-central1", DisplayName: "Iowa"},
		{ID: "us-east1", DisplayName: "South Carolina"},
		{ID: "us-east4", DisplayName: "Northern Virginia"},
		{ID: "us-west1", DisplayName: "Oregon"},
	}
}
