package camunda

import (
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"collateral-pipeline/internal/common/metrics"
)

type handlerFunc func(worker.JobClient, entities.Job)

func (f handlerFunc) Handle(c worker.JobClient, j entities.Job) { f(c, j) }

func TestInstrument_TracksActiveJobs(t *testing.T) {
	gauge := metrics.WorkerJobsActive.WithLabelValues("instrument-test")
	var during float64
	var seen int64

	h := instrument("instrument-test", handlerFunc(func(_ worker.JobClient, job entities.Job) {
		during = testutil.ToFloat64(gauge)
		seen = job.Key
	}))
	h(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42, Type: "instrument-test"}})

	assert.Equal(t, float64(1), during)
	assert.Equal(t, float64(0), testutil.ToFloat64(gauge))
	assert.Equal(t, int64(42), seen)
}
