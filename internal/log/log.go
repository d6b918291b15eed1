package log

const (
	// FldFile is the name of the log field for storing file name information
	FldFile = "file"
	// FldPath is the name of the log field for storing path name information
	FldPath = "path"
	// FldTransport is the name of the log field for storing a transport name
	FldTransport = "transport"
	// FldRequest is the name of the log field for storing the ID of the HTTP request being handled
	FldRequest = "req"
	// FldVersion is the version number of the application
	FldVersion = "ver"
	// FldID is the ID of an entity used in the log entry
	FldID = "id"
	// FldName is the name of an entity used in the log entry
	FldName = "name"
	// FldVenue is the ID of a venue referenced in the log entry
	FldVenue = "venue"
	// FldArtist is the ID of an artist referenced in the log entry
	FldArtist = "artist"
	// FldSearch is a search term used in a search
	FldSearch = "search"
	// FldCount is the number of results a query returned
	FldCount = "count"
	// FldEvent is the type of a listing notification
	FldEvent = "event"
	// FldQueue is the name of a message queue
	FldQueue = "queue"
	// FldMethod is the HTTP method of a handled request
	FldMethod = "method"
	// FldStatus is the HTTP status code sent back to the client
	FldStatus = "status"
	// FldEndpoint is the name of the endpoint a log entry is written for
	FldEndpoint = "endpoint"
	// FldCause is the underlying failure of an error reported to the client
	FldCause = "cause"
)
