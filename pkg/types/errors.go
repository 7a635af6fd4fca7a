package types

import "errors"

var (
	ErrSponsorNotFound  = errors.New("sponsor not found")
	ErrLevelNotFound    = errors.New("level not found")
	ErrLevelHasSponsors = errors.New("level still has sponsors attached")
	ErrUnknownLevel     = errors.New("referenced level does not exist")

	ErrMediaNotFound  = errors.New("media not found")
	ErrMediaExists    = errors.New("media already uploaded and rewrite is not allowed")
	ErrMediaTooLarge  = errors.New("media exceeds maximum size")
	ErrMediaExtension = errors.New("media extension not allowed")
)
