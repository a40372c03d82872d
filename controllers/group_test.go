package controllers_test

import (
	"net/http"
	"testing"

	"academia-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroupAndList(t *testing.T) {
	db, r := setupServer(t)
	loc := mustCreateLocation(t, db, "Sede Centro")

	w := doJSON(t, r, http.MethodPost, "/groups", map[string]interface{}{
		"name":        "Lunes 18hs",
		"schedule":    "18:00-19:00",
		"day_of_week": "monday",
		"location_id": loc.ID.String(),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var list struct {
		Groups []struct {
			Name     string `json:"name"`
			Location struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"location"`
			ClientCount int `json:"client_count"`
		} `json:"groups"`
	}
	w = doJSON(t, r, http.MethodGet, "/groups", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &list)
	require.Len(t, list.Groups, 1)
	assert.Equal(t, "Lunes 18hs", list.Groups[0].Name)
	assert.Equal(t, "Sede Centro", list.Groups[0].Location.Name)
	assert.Equal(t, 0, list.Groups[0].ClientCount)
}

func TestCreateGroupUnknownLocation(t *testing.T) {
	_, r := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/groups", map[string]interface{}{
		"name":        "Lunes 18hs",
		"location_id": uuid.NewString(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestCreateGroupNameConflictIsCaseInsensitive(t *testing.T) {
	db, r := setupServer(t)
	loc := mustCreateLocation(t, db, "Sede Centro")
	mustCreateGroup(t, db, "Lunes 18hs", loc.ID)

	w := doJSON(t, r, http.MethodPost, "/groups", map[string]interface{}{
		"name":        "LUNES 18HS",
		"location_id": loc.ID.String(),
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestGetGroupIncludeClientsReturnsActiveMembersOnly(t *testing.T) {
	db, r := setupServer(t)
	loc := mustCreateLocation(t, db, "Sede Centro")
	grp := mustCreateGroup(t, db, "Lunes 18hs", loc.ID)

	active := models.Client{ID: uuid.New(), Name: "Ana", Surname: "Garcia", Dni: "30111222", IsActive: true}
	inactive := models.Client{ID: uuid.New(), Name: "Bruno", Surname: "Lopez", Dni: "30111223", IsActive: false}
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&inactive).Error)
	require.NoError(t, db.Create(&models.ClientGroup{ClientID: active.ID, GroupID: grp.ID}).Error)
	require.NoError(t, db.Create(&models.ClientGroup{ClientID: inactive.ID, GroupID: grp.ID}).Error)

	var resp struct {
		Group struct {
			Name     string `json:"name"`
			Location struct {
				Name string `json:"name"`
			} `json:"location"`
		} `json:"group"`
		Clients []struct {
			Surname string `json:"surname"`
		} `json:"clients"`
	}
	w := doJSON(t, r, http.MethodGet, "/groups?id="+grp.ID.String()+"&include_clients=true", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeBody(t, w, &resp)

	assert.Equal(t, "Sede Centro", resp.Group.Location.Name)
	require.Len(t, resp.Clients, 1)
	assert.Equal(t, "Garcia", resp.Clients[0].Surname)
}

func TestUpdateGroup(t *testing.T) {
	db, r := setupServer(t)
	loc := mustCreateLocation(t, db, "Sede Centro")
	other := mustCreateLocation(t, db, "Sede Norte")
	grp := mustCreateGroup(t, db, "Lunes 18hs", loc.ID)

	w := doJSON(t, r, http.MethodPut, "/groups?id="+grp.ID.String(), map[string]interface{}{
		"name":        "Lunes 19hs",
		"schedule":    "19:00-20:00",
		"day_of_week": "monday",
		"location_id": other.ID.String(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Group
	require.NoError(t, db.First(&stored, "id = ?", grp.ID).Error)
	assert.Equal(t, "Lunes 19hs", stored.Name)
	assert.Equal(t, other.ID, stored.LocationID)
}

func TestDeleteGroupReferencedByClientFails(t *testing.T) {
	db, r := setupServer(t)
	loc := mustCreateLocation(t, db, "Sede Centro")
	grp := mustCreateGroup(t, db, "Lunes 18hs", loc.ID)

	client := models.Client{ID: uuid.New(), Name: "Ana", Surname: "Garcia", Dni: "30111222", IsActive: true}
	require.NoError(t, db.Create(&client).Error)
	require.NoError(t, db.Create(&models.ClientGroup{ClientID: client.ID, GroupID: grp.ID}).Error)

	w := doJSON(t, r, http.MethodDelete, "/groups?id="+grp.ID.String(), nil)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var count int64
	require.NoError(t, db.Model(&models.Group{}).Where("id = ?", grp.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteGroup(t *testing.T) {
	db, r := setupServer(t)
	loc := mustCreateLocation(t, db, "Sede Centro")
	grp := mustCreateGroup(t, db, "Lunes 18hs", loc.ID)

	w := doJSON(t, r, http.MethodDelete, "/groups?id="+grp.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	require.NoError(t, db.Model(&models.Group{}).Count(&count).Error)
	assert.Zero(t, count)
}
