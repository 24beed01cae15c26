// Package trace provides assignment-trace recording for wait time estimation.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// AssignmentRecord captures one customer ahead of the target being handed to a server.
type AssignmentRecord struct {
	Position    int     // 1-based queue position of the customer
	ServerIndex int     // 0-based index into the server slice
	StartTime   float64 // when service begins (minutes from t=0)
	FreeAt      float64 // when the server becomes free again
}
