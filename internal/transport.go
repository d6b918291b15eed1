package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/kardianos/osext"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/ctxhelper"
	"github.com/derWhity/fyyur/internal/log"
)

const (
	apiBasePath = "/api"
	// Header carrying the ID of a request - taken over from the client when sent
	requestIDHeader = "X-Request-ID"
)

// Defines an error that defines the HTTP status that should be returned
type httpStatuser interface {
	Status() int
}

// Defines an error that returns a machine-readable error code
type errorCoder interface {
	ErrorCode() string
}

// Defines an error that contains a data field with additional information
type dataBearer interface {
	Data() interface{}
}

// Defines an error that carries a message for the user
type flasher interface {
	Flash() string
}

type errorResponse struct {
	basicResponse
	// The error code
	Error   string      `json:"error"`
	Message string      `json:"errorMessage"`
	Details interface{} `json:"errorDetails,omitempty"`
}

// MakeHTTPHandler creates the main HTTP handler for the Fyyur service
func MakeHTTPHandler(vs VenueService, as ArtistService, ss ShowService, logger *logrus.Entry) http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix(apiBasePath).Subrouter()

	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(encodeError),
		httptransport.ServerBefore(makeContextInjector(logger)),
		httptransport.ServerAfter(setRequestIDHeader),
		httptransport.ServerFinalizer(makeRequestLogger(logger)),
	}

	// -- Venue service --------------------------------
	{
		ep := MakeVenueEndpoints(vs, logger)

		// ListByArea
		api.Methods(http.MethodGet).Path("/venues").Handler(httptransport.NewServer(
			ep.ListByArea,
			decodeNilRequest,
			encodeJSONResponse,
			options...,
		))

		// Search
		api.Methods(http.MethodGet, http.MethodPost).Path("/venues/search").Handler(httptransport.NewServer(
			ep.Search,
			decodeSearchRequest,
			encodeJSONResponse,
			options...,
		))

		// Create
		api.Methods(http.MethodPost).Path("/venues/create").Handler(httptransport.NewServer(
			ep.Create,
			decodeFormRequest,
			encodeJSONResponse,
			options...,
		))

		// Get
		api.Methods(http.MethodGet).Path("/venues/{id:[0-9]+}").Handler(httptransport.NewServer(
			ep.Get,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))

		// GetRecord
		api.Methods(http.MethodGet).Path("/venues/{id:[0-9]+}/edit").Handler(httptransport.NewServer(
			ep.GetRecord,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))

		// Update
		api.Methods(http.MethodPost).Path("/venues/{id:[0-9]+}/edit").Handler(httptransport.NewServer(
			ep.Update,
			decodeFormRequest,
			encodeJSONResponse,
			options...,
		))

		// Delete
		api.Methods(http.MethodDelete).Path("/venues/{id:[0-9]+}").Handler(httptransport.NewServer(
			ep.Delete,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))
	}

	// -- Artist service -------------------------------
	{
		ep := MakeArtistEndpoints(as, logger)

		// List
		api.Methods(http.MethodGet).Path("/artists").Handler(httptransport.NewServer(
			ep.List,
			decodeNilRequest,
			encodeJSONResponse,
			options...,
		))

		// Search
		api.Methods(http.MethodGet, http.MethodPost).Path("/artists/search").Handler(httptransport.NewServer(
			ep.Search,
			decodeSearchRequest,
			encodeJSONResponse,
			options...,
		))

		// Create
		api.Methods(http.MethodPost).Path("/artists/create").Handler(httptransport.NewServer(
			ep.Create,
			decodeFormRequest,
			encodeJSONResponse,
			options...,
		))

		// Get
		api.Methods(http.MethodGet).Path("/artists/{id:[0-9]+}").Handler(httptransport.NewServer(
			ep.Get,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))

		// GetRecord
		api.Methods(http.MethodGet).Path("/artists/{id:[0-9]+}/edit").Handler(httptransport.NewServer(
			ep.GetRecord,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))

		// Update
		api.Methods(http.MethodPost).Path("/artists/{id:[0-9]+}/edit").Handler(httptransport.NewServer(
			ep.Update,
			decodeFormRequest,
			encodeJSONResponse,
			options...,
		))
	}

	// -- Show service ---------------------------------
	{
		ep := MakeShowEndpoints(ss, logger)

		// List
		api.Methods(http.MethodGet).Path("/shows").Handler(httptransport.NewServer(
			ep.List,
			decodeNilRequest,
			encodeJSONResponse,
			options...,
		))

		// Create
		api.Methods(http.MethodPost).Path("/shows/create").Handler(httptransport.NewServer(
			ep.Create,
			decodeFormRequest,
			encodeJSONResponse,
			options...,
		))
	}

	// Simple alive answer for checking if HTTP can be reached
	r.Methods(http.MethodGet).Path("/alive").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		data := map[string]bool{"ok": true}
		json.NewEncoder(w).Encode(data)
	})

	// Plain file service for the UI serving everything from the "ui" folder right beside the application executable
	execDir, err := osext.ExecutableFolder()
	if err != nil {
		panic(err)
	}
	uiDir := filepath.Join(execDir, "ui")
	r.Methods(http.MethodGet).PathPrefix("/").Handler(http.FileServer(http.Dir(uiDir)))

	return r
}

// decodeNilRequest just does nothing with the request. It is used for endpoints that don't need anything to be passed
func decodeNilRequest(_ context.Context, r *http.Request) (request interface{}, err error) {
	return nil, nil
}

// decodeSearchRequest reads the search term from the "search_term" query variable or form field
func decodeSearchRequest(_ context.Context, r *http.Request) (request interface{}, err error) {
	if err := r.ParseForm(); err != nil {
		return nil, MakeError(
			http.StatusBadRequest,
			ErrCodeIllegalForm,
			fmt.Sprintf("Failed to parse request: %v", err),
		)
	}
	return r.Form.Get("search_term"), nil
}

// decodeFormRequest reads the submitted form from the request body and - if present - the ID of the entity to change
// from the path
func decodeFormRequest(_ context.Context, r *http.Request) (interface{}, error) {
	if err := r.ParseForm(); err != nil {
		return nil, MakeError(
			http.StatusBadRequest,
			ErrCodeIllegalForm,
			fmt.Sprintf("Failed to parse form data: %v", err),
		)
	}
	req := formRequest{Form: r.PostForm}
	if _, ok := mux.Vars(r)["id"]; ok {
		id, err := getUintFromPath("id", r)
		if err != nil {
			return nil, err
		}
		req.ID = id
	}
	return req, nil
}

// getUintFromPath is a helper function that gets a uint from the given path variable
func getUintFromPath(varname string, r *http.Request) (uint, error) {
	errmsg := fmt.Sprintf("Value for '%s' is no valid unsigned integer", varname)
	vars := mux.Vars(r)
	str, ok := vars[varname]
	if !ok {
		return 0, MakeError(http.StatusBadRequest, ErrCodeInvalidUint, errmsg)
	}
	id, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, MakeError(http.StatusBadRequest, ErrCodeInvalidUint, errmsg)
	}
	return uint(id), nil
}

// Decodes an ID from the "id" path variable provided by GoRilla
func decodeIDFromPath(_ context.Context, r *http.Request) (interface{}, error) {
	return getUintFromPath("id", r)
}

// Encodes a typical JSON response
func encodeJSONResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	if err == nil {
		panic("encodeError with nil error")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if st, ok := err.(httpStatuser); ok {
		w.WriteHeader(st.Status())
	} else {
		w.WriteHeader(http.StatusInternalServerError)
	}
	ret := errorResponse{
		basicResponse: basicResponse{OK: false},
		Message:       err.Error(),
		Error:         ErrCodeUnknown,
	}
	if cd, ok := err.(errorCoder); ok {
		ret.Error = cd.ErrorCode()
	}
	if fl, ok := err.(flasher); ok {
		ret.Flash = fl.Flash()
	}
	if db, ok := err.(dataBearer); ok {
		ret.Details = db.Data()
	}
	json.NewEncoder(w).Encode(&ret)
}

// makeContextInjector returns a function that puts a request-scoped logger and the ID of the request into the context
func makeContextInjector(logger *logrus.Entry) httptransport.RequestFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.New().String()
		}
		ctx = context.WithValue(ctx, ctxhelper.KeyRequestID, id)
		return context.WithValue(ctx, ctxhelper.KeyLogger, logger.WithField(log.FldRequest, id))
	}
}

func setRequestIDHeader(ctx context.Context, w http.ResponseWriter) context.Context {
	if id := ctxhelper.RequestID(ctx); id != "" {
		w.Header().Set(requestIDHeader, id)
	}
	return ctx
}

func makeRequestLogger(logger *logrus.Entry) httptransport.ServerFinalizerFunc {
	return func(ctx context.Context, code int, r *http.Request) {
		ctxhelper.LoggerOr(ctx, logger).WithFields(logrus.Fields{
			log.FldMethod: r.Method,
			log.FldPath:   r.URL.Path,
			log.FldStatus: code,
		}).Debug("Request handled")
	}
}
