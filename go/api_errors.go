package intakeserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	departmentsapp "github.com/Apurer/parcel-intake-api/internal/domains/departments/application"
	departmentsdomain "github.com/Apurer/parcel-intake-api/internal/domains/departments/domain"
	departmentsports "github.com/Apurer/parcel-intake-api/internal/domains/departments/ports"
	parcelsapp "github.com/Apurer/parcel-intake-api/internal/domains/parcels/application"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/manifest"
	parcelsports "github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
	apierrors "github.com/Apurer/parcel-intake-api/internal/shared/errors"
)

var responder = apierrors.NewResponder("", parcelErrorMapper, departmentErrorMapper)

func parcelErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	var formatErr *manifest.FormatError
	switch {
	case errors.As(err, &formatErr):
		problem := apierrors.ErrInvalidManifest.WithDetail(err.Error())
		if len(formatErr.Found) > 0 {
			problem = problem.WithExtension("foundRootElements", formatErr.Found)
		}
		return problem, true
	case errors.Is(err, parcelsapp.ErrNoValidParcels):
		return apierrors.ErrEmptyManifest, true
	case errors.Is(err, parcelsports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("Parcel not found"), true
	case errors.Is(err, parcelsports.ErrDuplicateParcel):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, parcelsapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func departmentErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, departmentsports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("Department not found"), true
	case errors.Is(err, departmentsports.ErrDuplicateName), errors.Is(err, departmentsdomain.ErrBuiltInDepartment):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, departmentsapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// respondServiceError renders an application error as RFC 7807 problem details.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

// respondError keeps transport-level failures on the same problem format.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		responder.BadRequest(c, err.Error())
		return
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusUnsupportedMediaType:
		problem = apierrors.ErrUnsupportedMedia.WithDetail(err.Error())
	case http.StatusRequestEntityTooLarge:
		problem = apierrors.ErrPayloadTooLarge.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	responder.Respond(c, problem)
}
