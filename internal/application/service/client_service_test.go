package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sector := " <b>Minería</b> "
	c, err := env.clients.CreateClient(ctx, &CreateClientInput{LegalName: "Minera Norte SpA", RUT: "76.086.428-5", Sector: &sector})
	require.NoError(t, err)
	assert.Equal(t, "76086428-5", c.RUT)
	require.NotNil(t, c.Sector)
	assert.Equal(t, "Minería", *c.Sector)
	assert.Nil(t, c.Location)

	_, err = env.clients.CreateClient(ctx, &CreateClientInput{LegalName: "Otra", RUT: "76086428-5"})
	assertStatus(t, http.StatusConflict, err)

	_, err = env.clients.CreateClient(ctx, &CreateClientInput{LegalName: "Otra", RUT: "76.086.428-4"})
	assertStatus(t, http.StatusUnprocessableEntity, err)

	_, err = env.clients.CreateClient(ctx, &CreateClientInput{LegalName: "<i></i>", RUT: "11.111.111-1"})
	assertStatus(t, http.StatusUnprocessableEntity, err)
}

func TestGetAndUpdateClient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.clients.GetClient(ctx, uuid.New())
	assertStatus(t, http.StatusNotFound, err)

	c := env.client(t, "Minera Norte SpA", "76086428-5")
	name := "Minera Norte S.A."
	updated, err := env.clients.UpdateClient(ctx, &UpdateClientInput{ID: c.ID, LegalName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.LegalName)
	assert.Equal(t, "76086428-5", updated.RUT)
}

func TestDeleteClientWithInvoices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := env.client(t, "Minera Norte SpA", "76086428-5")
	v := env.vendor(t, "Ana Soto", "12345678-5", AssignmentInput{ClientID: c.ID, Percentage: d("0.1")})
	inv := env.invoice(t, v, c, "2024-01-10", "1000", "0")

	err := env.clients.DeleteClient(ctx, c.ID)
	assertStatus(t, http.StatusConflict, err)

	require.NoError(t, env.invoices.DeleteInvoice(ctx, inv.ID))
	require.NoError(t, env.clients.DeleteClient(ctx, c.ID))

	assignments, err := env.vendors.ListAssignments(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestImportClients(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.client(t, "Existente Ltda", "11.111.111-1")

	result, err := env.clients.ImportClients(ctx, []ImportClientRow{
		{LegalName: "Minera Norte SpA", RUT: "76.086.428-5", Sector: "Minería"},
		{LegalName: "", RUT: "12.345.678-5"},
		{LegalName: "Malo", RUT: "12.345.678-9"},
		{LegalName: "Repetido", RUT: "76086428-5"},
		{LegalName: "Existente", RUT: "11111111-1"},
		{LegalName: "Constructora Andes", RUT: "12345678-5"},
	})
	require.NoError(t, err)

	assert.Equal(t, 6, result.TotalRows)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 4, result.Failed)
	require.Len(t, result.Errors, 4)

	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "legal_name", result.Errors[0].Field)
	assert.Equal(t, 4, result.Errors[1].Row)
	assert.Contains(t, result.Errors[2].Message, "same as row 2")
	assert.Contains(t, result.Errors[3].Message, "already exists")

	for _, c := range result.Created {
		assert.NotEqual(t, uuid.Nil, c.ID)
	}
}
