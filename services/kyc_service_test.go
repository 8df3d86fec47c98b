package services

import (
	"testing"

	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func validSubmission() KycSubmission {
	return KycSubmission{
		FullName:         "Ada Obi",
		DocumentType:     "passport",
		DocumentNumber:   "A1234567",
		DocumentFrontURL: "https://res.cloudinary.com/demo/image/upload/kyc_documents/front.jpg",
	}
}

func TestSubmitKyc(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, nil)

	kyc, err := SubmitKyc(db, user.ID, validSubmission())
	require.NoError(t, err)
	require.Equal(t, models.KycStatusPending, kyc.Status)
	require.Equal(t, user.ID, kyc.UserID)

	_, err = SubmitKyc(db, user.ID, validSubmission())
	requireKind(t, err, KindConflict)

	got, err := GetUserKyc(db, user.ID)
	require.NoError(t, err)
	require.Equal(t, kyc.ID, got.ID)
	require.EqualValues(t, 1, countActivities(t, db, user.ID, "Submitted KYC documents"))
}

func TestSubmitKycValidation(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, nil)

	sub := validSubmission()
	sub.DocumentType = "library_card"
	_, err := SubmitKyc(db, user.ID, sub)
	requireKind(t, err, KindValidation)

	sub = validSubmission()
	sub.DocumentFrontURL = "not a url"
	_, err = SubmitKyc(db, user.ID, sub)
	requireKind(t, err, KindValidation)

	_, err = SubmitKyc(db, uuid.New(), validSubmission())
	requireKind(t, err, KindNotFound)

	_, err = GetUserKyc(db, user.ID)
	requireKind(t, err, KindNotFound)
}

func TestAdminUpdateKycApproveMirrorsOntoUser(t *testing.T) {
	db := setupDB(t)
	admin := createUser(t, db, func(u *models.User) { u.IsAdmin = true })
	user := createUser(t, db, nil)
	kyc, err := SubmitKyc(db, user.ID, validSubmission())
	require.NoError(t, err)

	result, err := AdminUpdateKyc(db, admin.ID, kyc.ID, models.KycStatusApproved, nil)
	require.NoError(t, err)
	require.Equal(t, models.KycStatusApproved, result.Kyc.Status)

	after := reloadUser(t, db, user.ID)
	require.Equal(t, models.KycStatusApproved, after.KycStatus)
	require.True(t, after.IsVerified)

	var act models.Activity
	require.NoError(t, db.Where("user_id = ? AND action = ?", user.ID, "KYC verification").First(&act).Error)
	require.Equal(t, "Approved", act.Status)
}

func TestAdminUpdateKycRejectLeavesVerificationAlone(t *testing.T) {
	db := setupDB(t)
	admin := createUser(t, db, func(u *models.User) { u.IsAdmin = true })
	user := createUser(t, db, nil)
	kyc, err := SubmitKyc(db, user.ID, validSubmission())
	require.NoError(t, err)

	notes := "Document is blurry"
	result, err := AdminUpdateKyc(db, admin.ID, kyc.ID, models.KycStatusRejected, &notes)
	require.NoError(t, err)
	require.Equal(t, notes, *result.Kyc.AdminNotes)

	after := reloadUser(t, db, user.ID)
	require.Equal(t, models.KycStatusRejected, after.KycStatus)
	require.False(t, after.IsVerified)

	// A rejected submission can be replaced, which puts it back in the queue.
	sub := validSubmission()
	sub.DocumentNumber = "B7654321"
	resubmitted, err := SubmitKyc(db, user.ID, sub)
	require.NoError(t, err)
	require.Equal(t, kyc.ID, resubmitted.ID)
	require.Equal(t, models.KycStatusPending, resubmitted.Status)
	require.Equal(t, "B7654321", resubmitted.DocumentNumber)
	require.Nil(t, resubmitted.AdminNotes)

	records, err := ListKyc(db, models.KycStatusPending)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].User)
}

func TestAdminUpdateKycPendingDoesNotMirror(t *testing.T) {
	db := setupDB(t)
	admin := createUser(t, db, func(u *models.User) { u.IsAdmin = true })
	user := createUser(t, db, func(u *models.User) { u.KycStatus = models.KycStatusApproved })
	kyc := models.Kyc{
		UserID:           user.ID,
		FullName:         "Ada Obi",
		DocumentType:     "passport",
		DocumentNumber:   "A1",
		DocumentFrontURL: "https://example.com/a.jpg",
		Status:           models.KycStatusApproved,
	}
	require.NoError(t, db.Create(&kyc).Error)

	_, err := AdminUpdateKyc(db, admin.ID, kyc.ID, models.KycStatusPending, nil)
	require.NoError(t, err)
	require.Equal(t, models.KycStatusApproved, reloadUser(t, db, user.ID).KycStatus)

	_, err = AdminUpdateKyc(db, admin.ID, uuid.New(), models.KycStatusApproved, nil)
	requireKind(t, err, KindNotFound)

	_, err = AdminUpdateKyc(db, admin.ID, kyc.ID, "maybe", nil)
	requireKind(t, err, KindValidation)
}
