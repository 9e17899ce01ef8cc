package db

import (
	"time"

	"ngcrud-backend-go/internal/models"
)

// timestampLike matches store-native timestamps that know how to become a time.Time,
// such as *timestamppb.Timestamp.
type timestampLike interface {
	AsTime() time.Time
}

// normalizeTime turns any timestamp representation the store may hold into a single
// temporal type. Absent or unrecognized values become nil.
func normalizeTime(raw interface{}) *time.Time {
	switch v := raw.(type) {
	case nil:
		return nil
	case time.Time:
		return &v
	case *time.Time:
		if v == nil {
			return nil
		}
		t := *v
		return &t
	case timestampLike:
		t := v.AsTime()
		return &t
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil
		}
		return &t
	}
	return nil
}

// timeValue is the stored form of an optional timestamp.
func timeValue(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func stringField(data map[string]interface{}, key string) string {
	s, _ := data[key].(string)
	return s
}

func optionalStringField(data map[string]interface{}, key string) *string {
	s, ok := data[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func optionalStringValue(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// ThingFromRecord maps a stored Things document to a Thing. Missing fields get defaults
// instead of failing; the ID is always the store-assigned document ID.
func ThingFromRecord(id string, data map[string]interface{}) models.Thing {
	return models.Thing{
		ID:          id,
		Name:        stringField(data, "name"),
		Description: stringField(data, "description"),
		Location:    optionalStringField(data, "location"),
		PhotoURL:    optionalStringField(data, "photoURL"),
		CreatedAt:   normalizeTime(data["createdAt"]),
		Owner:       stringField(data, "owner"),
		Status:      models.ThingStatus(stringField(data, "status")),
		Metadata:    data["metadata"],
	}
}

// ThingToRecord projects a Thing onto its stored fields. The ID is not part of the body.
func ThingToRecord(t models.Thing) map[string]interface{} {
	return map[string]interface{}{
		"name":        t.Name,
		"description": t.Description,
		"location":    optionalStringValue(t.Location),
		"photoURL":    optionalStringValue(t.PhotoURL),
		"createdAt":   timeValue(t.CreatedAt),
		"owner":       t.Owner,
		"status":      string(t.Status),
		"metadata":    t.Metadata,
	}
}

// UserProfileFromRecord maps a stored Users document to a UserProfile.
func UserProfileFromRecord(uid string, data map[string]interface{}) models.UserProfile {
	p := models.UserProfile{
		UID:         stringField(data, "uid"),
		DisplayName: stringField(data, "displayName"),
		Email:       stringField(data, "email"),
		PhotoURL:    stringField(data, "photoURL"),
		Role:        stringField(data, "role"),
		Status:      stringField(data, "status"),
		CreatedAt:   normalizeTime(data["createdAt"]),
		LastLoginAt: normalizeTime(data["lastLoginAt"]),
	}
	if p.UID == "" {
		p.UID = uid
	}
	return p
}

// UserProfileToRecord projects a UserProfile onto its stored fields.
func UserProfileToRecord(p models.UserProfile) map[string]interface{} {
	return map[string]interface{}{
		"uid":         p.UID,
		"displayName": p.DisplayName,
		"email":       p.Email,
		"photoURL":    p.PhotoURL,
		"role":        p.Role,
		"status":      p.Status,
		"createdAt":   timeValue(p.CreatedAt),
		"lastLoginAt": timeValue(p.LastLoginAt),
	}
}
