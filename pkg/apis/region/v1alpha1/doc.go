// Package v1alpha1 contains the gcping data model: regions, region sets, deployment statuses,
// and the configuration struct loaded once at startup.
package v1alpha1
