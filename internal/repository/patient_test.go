package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"clinic-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientCreateThenGet(t *testing.T) {
	repo := NewPatientRepository(newTestDB(t))
	ctx := context.Background()

	dob := time.Date(1984, 2, 17, 0, 0, 0, 0, time.UTC)
	insurer := "Acme Health"
	p := models.Patient{
		PatientID:         "PAT-XY12",
		FirstName:         "Maya",
		LastName:          "Osei",
		DateOfBirth:       &dob,
		Gender:            "F",
		Mobile:            "555-0142",
		Address:           "12 Elm Street",
		InsuranceProvider: &insurer,
		Status:            "Active",
		MedicalHistory:    "asthma",
		Allergies:         "penicillin",
	}

	id, err := repo.Create(ctx, &p)
	require.NoError(t, err)
	assert.Equal(t, "PAT-XY12", id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Maya", got.FirstName)
	assert.Equal(t, "Osei", got.LastName)
	require.NotNil(t, got.DateOfBirth)
	assert.True(t, got.DateOfBirth.Equal(dob))
	assert.Equal(t, "555-0142", got.Mobile)
	require.NotNil(t, got.InsuranceProvider)
	assert.Equal(t, "Acme Health", *got.InsuranceProvider)
	assert.Equal(t, "asthma", got.MedicalHistory)
	assert.Equal(t, "penicillin", got.Allergies)
}

func TestPatientMintsIDWhenAbsent(t *testing.T) {
	repo := NewPatientRepository(newTestDB(t))

	id, err := repo.Create(context.Background(), &models.Patient{FirstName: "No", LastName: "ID"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "PAT-"), "minted id %q", id)
	assert.Len(t, id, len("PAT-")+8)
}

func TestPatientAdvancedSearch(t *testing.T) {
	repo := NewPatientRepository(newTestDB(t))
	ctx := context.Background()

	for _, p := range []models.Patient{
		{PatientID: "PAT-01", FirstName: "Maya", LastName: "Osei", Mobile: "555-0142"},
		{PatientID: "PAT-02", FirstName: "Jon", LastName: "Mayer", Mobile: "555-9000"},
		{PatientID: "PAT-03", FirstName: "Rita", LastName: "Cole", Mobile: "555-0143"},
	} {
		local := p
		_, err := repo.Create(ctx, &local)
		require.NoError(t, err)
	}

	out, err := repo.AdvancedSearch(ctx, PatientFilter{Name: "may"})
	require.NoError(t, err)
	assert.Len(t, out, 2, "matches Maya Osei and Jon Mayer")

	out, err = repo.AdvancedSearch(ctx, PatientFilter{Name: "may", Mobile: "0142"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "PAT-01", out[0].PatientID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	out, err = repo.AdvancedSearch(ctx, PatientFilter{})
	require.NoError(t, err)
	assert.Len(t, out, len(all))
}

func TestPatientGetByStatus(t *testing.T) {
	repo := NewPatientRepository(newTestDB(t))
	ctx := context.Background()

	for _, p := range []models.Patient{
		{PatientID: "PAT-01", FirstName: "A", LastName: "B", Status: "Active"},
		{PatientID: "PAT-02", FirstName: "C", LastName: "D", Status: "Inactive"},
	} {
		local := p
		_, err := repo.Create(ctx, &local)
		require.NoError(t, err)
	}

	out, err := repo.GetByStatus(ctx, "Inactive")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "PAT-02", out[0].PatientID)
}

func TestPatientGetMissingReturnsNotFound(t *testing.T) {
	repo := NewPatientRepository(newTestDB(t))
	_, err := repo.GetByID(context.Background(), "PAT-NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}
