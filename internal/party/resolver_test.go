package party

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	agentdomain "github.com/smallbiznis/karatledger/internal/agent/domain"
	agentrepo "github.com/smallbiznis/karatledger/internal/agent/repository"
	agentsvc "github.com/smallbiznis/karatledger/internal/agent/service"
	customerdomain "github.com/smallbiznis/karatledger/internal/customer/domain"
	customerrepo "github.com/smallbiznis/karatledger/internal/customer/repository"
	customersvc "github.com/smallbiznis/karatledger/internal/customer/service"
	jobworkerdomain "github.com/smallbiznis/karatledger/internal/jobworker/domain"
	jobworkerrepo "github.com/smallbiznis/karatledger/internal/jobworker/repository"
	jobworkersvc "github.com/smallbiznis/karatledger/internal/jobworker/service"
	"github.com/smallbiznis/karatledger/internal/reference"
	"github.com/smallbiznis/karatledger/internal/sequence"
	"github.com/smallbiznis/karatledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolve(t *testing.T) {
	db := testutil.OpenDB(t, &sequence.Counter{}, &customerdomain.Customer{}, &jobworkerdomain.JobWorker{}, &agentdomain.Agent{})
	node := testutil.Node(t)
	seq := sequence.New(sequence.Params{DB: db, Log: zap.NewNop()})

	customers := customersvc.New(customersvc.Params{DB: db, Log: zap.NewNop(), GenID: node, Repo: customerrepo.Provide(), Seq: seq})
	workers := jobworkersvc.New(jobworkersvc.Params{DB: db, Log: zap.NewNop(), GenID: node, Repo: jobworkerrepo.Provide(), Seq: seq})
	agents := agentsvc.New(agentsvc.Params{DB: db, Log: zap.NewNop(), GenID: node, Repo: agentrepo.Provide(), Seq: seq})
	r := New(Params{Customers: customers, JobWorkers: workers, Agents: agents})
	ctx := context.Background()

	c, err := customers.Create(ctx, customerdomain.CreateRequest{Name: "Asha", Phone: "9876543210"})
	require.NoError(t, err)
	w, err := workers.Create(ctx, jobworkerdomain.CreateRequest{Name: "Ravi", Phone: "9876543211"})
	require.NoError(t, err)

	got, err := r.Resolve(ctx, reference.Party{Kind: "Customer", EntityID: &c.ID, Name: "stale"})
	require.NoError(t, err)
	assert.Equal(t, reference.PartyCustomer, got.Kind)
	assert.Equal(t, "Asha", got.Name)

	got, err = r.JobWorker(ctx, w.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Ravi", got.Name)
	assert.Equal(t, w.ID, got.ID())

	missing := snowflake.ID(99)
	_, err = r.Resolve(ctx, reference.Party{Kind: reference.PartyAgent, EntityID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Customer(ctx, "not-an-id")
	assert.ErrorIs(t, err, reference.ErrMissingPartyID)

	_, err = r.Resolve(ctx, reference.Party{})
	assert.ErrorIs(t, err, ErrMissingName)
	walkIn, err := r.Resolve(ctx, reference.Party{Name: " Walk-in "})
	require.NoError(t, err)
	assert.Equal(t, reference.PartyNone, walkIn.Kind)
	assert.Equal(t, "Walk-in", walkIn.Name)
}
