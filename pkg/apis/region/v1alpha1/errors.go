package v1alpha1

import "errors"

// ErrEmptyRegionID is returned when a region has no identifier.
var ErrEmptyRegionID = errors.New("region id must not be empty")

// ErrDuplicateRegion is returned when a region set contains the same ID twice.
var ErrDuplicateRegion = errors.New("duplicate region")

// ErrInvalidStatus is returned when an invalid region status is specified.
var ErrInvalidStatus = errors.New("invalid region status")

// ErrInvalidSource is returned when an invalid region source is specified.
var ErrInvalidSource = errors.New("invalid region source")

// ErrInvalidProvider is returned when an invalid provider is specified.
var ErrInvalidProvider = errors.New("invalid provider")

// ErrInvalidFormat is returned when an invalid config artifact format is specified.
var ErrInvalidFormat = errors.New("invalid config format")

// ErrInvalidPublisher is returned when an invalid publisher is specified.
var ErrInvalidPublisher = errors.New("invalid publisher")

// ErrInvalidLogLevel is returned when the log level cannot be parsed.
var ErrInvalidLogLevel = errors.New("invalid log level")

// ErrInvalidConcurrency is returned when the worker limit is not positive.
var ErrInvalidConcurrency = errors.New("concurrency must be greater than zero")

// ErrInvalidDuration is returned when a duration setting is negative.
var ErrInvalidDuration = errors.New("duration must not be negative")

// ErrRegionsFileRequired is returned when the file source is selected without a file.
var ErrRegionsFileRequired = errors.New("regions file is required when source is File")

// ErrProjectRequired is returned when no project name is configured.
var ErrProjectRequired = errors.New("project is required")

// ErrImageRequired is returned when no container image is configured.
var ErrImageRequired = errors.New("container image is required")

// ErrBucketRequired is returned when the GCS publisher is selected without a bucket.
var ErrBucketRequired = errors.New("bucket is required when publisher is GCS")

// ErrOutputDirRequired is returned when the file publisher is selected without a directory.
var ErrOutputDirRequired = errors.New("output directory is required when publisher is File")
