package directory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// searchCounter counts directory searches by outcome.
	searchCounter = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "directory_searches_total",
			Help: "Number of directory searches, differentiated by outcome.",
		},
		[]string{"result"},
	)

	// reconnectCounter counts forced reconnects after transport faults.
	reconnectCounter = promauto.NewCounter( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "directory_reconnects_total",
			Help: "Number of reconnects triggered by directory transport faults.",
		},
	)
)
