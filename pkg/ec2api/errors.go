package ec2api

import (
	"errors"
	"net/http"
	"strings"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"

	"github.com/openshift/launchkit/pkg/rest"
)

// Error codes the provisioning flows depend on.
const (
	ErrCodeKeyPairDuplicate        = "InvalidKeyPair.Duplicate"
	ErrCodeGroupDuplicate          = "InvalidGroup.Duplicate"
	ErrCodePlacementGroupDuplicate = "InvalidPlacementGroup.Duplicate"
	ErrCodePermissionDuplicate     = "InvalidPermission.Duplicate"
)

// HasErrorCode reports whether err carries an API error with the given code.
func HasErrorCode(err error, code string) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == code
}

// IsClientError reports whether err is an API error caused by the request itself, e.g. a
// duplicate or malformed one, rather than a transport or service failure. EC2 errors carry
// no fault, so the HTTP status decides.
func IsClientError(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.ErrorFault() == smithy.FaultClient {
		return true
	}
	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) &&
		respErr.HTTPStatusCode() >= http.StatusBadRequest &&
		respErr.HTTPStatusCode() < http.StatusInternalServerError
}

// isMissing matches the codes EC2 uses for absent resources, e.g. InvalidKeyPair.NotFound
// or InvalidPlacementGroup.Unknown.
func isMissing(err error) bool {
	if rest.IsNotFound(err) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && strings.HasSuffix(apiErr.ErrorCode(), ".Unknown")
}

// emptyOnMissing is the exception parser of describe operations.
func emptyOnMissing[T any](err error) ([]T, error) {
	if isMissing(err) {
		return nil, nil
	}
	return nil, err
}
