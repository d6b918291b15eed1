package internal

import (
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// VenueEndpoints is a collection of endpoints to the venue service
type VenueEndpoints struct {
	ListByArea endpoint.Endpoint
	Search     endpoint.Endpoint
	Get        endpoint.Endpoint
	GetRecord  endpoint.Endpoint
	Create     endpoint.Endpoint
	Update     endpoint.Endpoint
	Delete     endpoint.Endpoint
}

// ArtistEndpoints is a collection of endpoints to the artist service
type ArtistEndpoints struct {
	List      endpoint.Endpoint
	Search    endpoint.Endpoint
	Get       endpoint.Endpoint
	GetRecord endpoint.Endpoint
	Create    endpoint.Endpoint
	Update    endpoint.Endpoint
}

// ShowEndpoints is a collection of endpoints to the show service
type ShowEndpoints struct {
	List   endpoint.Endpoint
	Create endpoint.Endpoint
}

// The base for all responses which always contains an "ok" property to show if the call was successful and a
// data element containing the result of the request
type basicResponse struct {
	OK   bool        `json:"ok"`
	Data interface{} `json:"data,omitempty"`
	// Message to show to the user after a form submission
	Flash string `json:"message,omitempty"`
}

func successFlash(subject, verb string) string {
	return fmt.Sprintf("%s was successfully %s!", subject, verb)
}

func failureFlash(subject, verb string) string {
	return fmt.Sprintf("An error occurred. %s could not be %s.", subject, verb)
}

// -- Venues -----------------------------------------------------------------------------------------------------------

// MakeVenueEndpoints creates the endpoints needed to use the venue service
func MakeVenueEndpoints(s VenueService, logger *logrus.Entry) VenueEndpoints {
	return VenueEndpoints{
		ListByArea: LogFailures("venues.listByArea", logger)(MakeListVenuesByAreaEndpoint(s)),
		Search:     LogFailures("venues.search", logger)(MakeSearchVenuesEndpoint(s)),
		Get:        LogFailures("venues.get", logger)(MakeGetVenueEndpoint(s)),
		GetRecord:  LogFailures("venues.getRecord", logger)(MakeGetVenueRecordEndpoint(s)),
		Create:     LogFailures("venues.create", logger)(MakeCreateVenueEndpoint(s)),
		Update:     LogFailures("venues.update", logger)(MakeUpdateVenueEndpoint(s)),
		Delete:     LogFailures("venues.delete", logger)(MakeDeleteVenueEndpoint(s)),
	}
}

// MakeListVenuesByAreaEndpoint returns an endpoint calling the ListByArea method of the VenueService
func MakeListVenuesByAreaEndpoint(s VenueService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		areas, err := s.ListByArea(ctx)
		if err != nil {
			return nil, err
		}
		return basicResponse{OK: true, Data: areas}, nil
	}
}

// MakeSearchVenuesEndpoint returns an endpoint calling the Search method of the VenueService
func MakeSearchVenuesEndpoint(s VenueService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		term, ok := request.(string)
		if !ok {
			return nil, fmt.Errorf("missing search term")
		}
		res, err := s.Search(ctx, term)
		if err != nil {
			return nil, err
		}
		return basicResponse{OK: true, Data: res}, nil
	}
}

// MakeGetVenueEndpoint returns an endpoint calling the Get method of the VenueService
func MakeGetVenueEndpoint(s VenueService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		v, err := s.Get(ctx, request.(uint))
		if err != nil {
			return nil, err
		}
		return basicResponse{OK: true, Data: v}, nil
	}
}

// MakeGetVenueRecordEndpoint returns an endpoint calling the GetRecord method of the VenueService
func MakeGetVenueRecordEndpoint(s VenueService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		v, err := s.GetRecord(ctx, request.(uint))
		if err != nil {
			return nil, err
		}
		return basicResponse{OK: true, Data: v}, nil
	}
}

// MakeCreateVenueEndpoint returns an endpoint calling the Create method of the VenueService
func MakeCreateVenueEndpoint(s VenueService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(formRequest)
		v, err := s.Create(ctx, req.Form)
		if err != nil {
			return nil, withFlash(err, failureFlash(req.subject("Venue"), "listed"))
		}
		return basicResponse{true, v, successFlash("Venue "+v.Name, "listed")}, nil
	}
}

// MakeUpdateVenueEndpoint returns an endpoint calling the Update method of the VenueService
func MakeUpdateVenueEndpoint(s VenueService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(formRequest)
		v, err := s.Update(ctx, req.ID, req.Form)
		if err != nil {
			return nil, withFlash(err, failureFlash(req.subject("Venue"), "updated"))
		}
		return basicResponse{true, v, successFlash("Venue "+v.Name, "updated")}, nil
	}
}

// MakeDeleteVenueEndpoint returns an endpoint calling the Delete method of the VenueService
func MakeDeleteVenueEndpoint(s VenueService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id := request.(uint)
		v, err := s.Delete(ctx, id)
		if err != nil {
			return nil, withFlash(err, failureFlash(fmt.Sprintf("Venue #%d", id), "deleted"))
		}
		return basicResponse{OK: true, Flash: successFlash("Venue "+v.Name, "deleted")}, nil
	}
}

// -- Artists ----------------------------------------------------------------------------------------------------------

// MakeArtistEndpoints creates the endpoints needed to use the artist service
func MakeArtistEndpoints(s ArtistService, logger *logrus.Entry) ArtistEndpoints {
	return ArtistEndpoints{
		List:      LogFailures("artists.list", logger)(MakeListArtistsEndpoint(s)),
		Search:    LogFailures("artists.search", logger)(MakeSearchArtistsEndpoint(s)),
		Get:       LogFailures("artists.get", logger)(MakeGetArtistEndpoint(s)),
		GetRecord: LogFailures("artists.getRecord", logger)(MakeGetArtistRecordEndpoint(s)),
		Create:    LogFailures("artists.create", logger)(MakeCreateArtistEndpoint(s)),
		Update:    LogFailures("artists.update", logger)(MakeUpdateArtistEndpoint(s)),
	}
}

// MakeListArtistsEndpoint returns an endpoint calling the List method of the ArtistService
func MakeListArtistsEndpoint(s ArtistService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		lst, err := s.List(ctx)
		if err != nil {
			return nil, err
		}
		return basicResponse{OK: true, Data: lst}, nil
	}
}

// MakeSearchArtistsEndpoint returns an endpoint calling the Search method of the ArtistService
func MakeSearchArtistsEndpoint(s ArtistService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		term, ok := request.(string)
		if !ok {
			return nil, fmt.Errorf("missing search term")
		}
		res, err := s.Search(ctx, term)
		if err != nil {
			return nil, err
		}
		return basicResponse{OK: true, Data: res}, nil
	}
}

// MakeGetArtistEndpoint returns an endpoint calling the Get method of the ArtistService
func MakeGetArtistEndpoint(s ArtistService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		a, err := s.Get(ctx, request.(uint))
		if err != nil {
			return nil, err
		}
		return basicResponse{OK: true, Data: a}, nil
	}
}

// MakeGetArtistRecordEndpoint returns an endpoint calling the GetRecord method of the ArtistService
func MakeGetArtistRecordEndpoint(s ArtistService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		a, err := s.GetRecord(ctx, request.(uint))
		if err != nil {
			return nil, err
		}
		return basicResponse{OK: true, Data: a}, nil
	}
}

// MakeCreateArtistEndpoint returns an endpoint calling the Create method of the ArtistService
func MakeCreateArtistEndpoint(s ArtistService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(formRequest)
		a, err := s.Create(ctx, req.Form)
		if err != nil {
			return nil, withFlash(err, failureFlash(req.subject("Artist"), "listed"))
		}
		return basicResponse{true, a, successFlash("Artist "+a.Name, "listed")}, nil
	}
}

// MakeUpdateArtistEndpoint returns an endpoint calling the Update method of the ArtistService
func MakeUpdateArtistEndpoint(s ArtistService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(formRequest)
		a, err := s.Update(ctx, req.ID, req.Form)
		if err != nil {
			return nil, withFlash(err, failureFlash(req.subject("Artist"), "updated"))
		}
		return basicResponse{true, a, successFlash("Artist "+a.Name, "updated")}, nil
	}
}

// -- Shows ------------------------------------------------------------------------------------------------------------

// MakeShowEndpoints creates the endpoints needed to use the show service
func MakeShowEndpoints(s ShowService, logger *logrus.Entry) ShowEndpoints {
	return ShowEndpoints{
		List:   LogFailures("shows.list", logger)(MakeListShowsEndpoint(s)),
		Create: LogFailures("shows.create", logger)(MakeCreateShowEndpoint(s)),
	}
}

// MakeListShowsEndpoint returns an endpoint calling the List method of the ShowService
func MakeListShowsEndpoint(s ShowService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		lst, err := s.List(ctx)
		if err != nil {
			return nil, err
		}
		return basicResponse{OK: true, Data: lst}, nil
	}
}

// MakeCreateShowEndpoint returns an endpoint calling the Create method of the ShowService
func MakeCreateShowEndpoint(s ShowService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(formRequest)
		show, err := s.Create(ctx, req.Form)
		if err != nil {
			return nil, withFlash(err, failureFlash("Show", "listed"))
		}
		return basicResponse{true, show, successFlash("Show", "listed")}, nil
	}
}
