package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/orbitcrm/record_console_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarDate_RoundTrip(t *testing.T) {
	d := domain.NewCalendarDate(2024, time.March, 5)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05"`, string(data))

	var back domain.CalendarDate
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, d.Equal(back))
}

func TestCalendarDate_NoTimezoneDrift(t *testing.T) {
	// A timestamp just before midnight UTC must keep its written calendar day
	// regardless of the runtime's local zone.
	prev := time.Local
	loc, err := time.LoadLocation("Pacific/Auckland")
	require.NoError(t, err)
	time.Local = loc
	defer func() { time.Local = prev }()

	var d domain.CalendarDate
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-05T23:59:00Z"`), &d))
	assert.Equal(t, "2024-03-05", d.String())

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05"`, string(data))
}

func TestParseCalendarDate(t *testing.T) {
	d, err := domain.ParseCalendarDate("2023-12-31")
	require.NoError(t, err)
	assert.Equal(t, domain.NewCalendarDate(2023, time.December, 31), d)

	d, err = domain.ParseCalendarDate("2023-12-31T10:00:00+13:00")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", d.String())

	_, err = domain.ParseCalendarDate("")
	assert.Error(t, err)

	_, err = domain.ParseCalendarDate("2023-12-31x")
	assert.Error(t, err)

	_, err = domain.ParseCalendarDate("31/12/2023")
	assert.Error(t, err)
}

func TestCalendarDate_ZeroMarshalsNull(t *testing.T) {
	var d domain.CalendarDate
	assert.True(t, d.IsZero())

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	var back domain.CalendarDate
	require.NoError(t, json.Unmarshal([]byte("null"), &back))
	assert.True(t, back.IsZero())
}

func TestAttachment_TaggedUnion(t *testing.T) {
	var a domain.Attachment
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"quotation","quotation":{"uid":7,"number":"Q-7","total":"120.50","status":"sent"}}`), &a))
	require.Equal(t, domain.AttachmentQuotation, a.Kind)
	require.NotNil(t, a.Quotation)
	assert.Equal(t, int64(7), a.Quotation.UID)
	assert.Equal(t, "120.5", a.Quotation.Total.String())

	require.NoError(t, json.Unmarshal([]byte(`{"kind":"checkin","checkin":{"uid":3,"userUid":9,"latitude":1.5,"longitude":2.5}}`), &a))
	require.Equal(t, domain.AttachmentCheckin, a.Kind)
	require.NotNil(t, a.Checkin)
	assert.Equal(t, int64(9), a.Checkin.UserUID)
}

func TestAttachment_UnknownKindKeepsRaw(t *testing.T) {
	raw := `{"kind":"contract","contract":{"uid":11}}`
	var a domain.Attachment
	require.NoError(t, json.Unmarshal([]byte(raw), &a))
	assert.Equal(t, domain.AttachmentUnknown, a.Kind)
	assert.JSONEq(t, raw, string(a.Raw))
}

func TestRefDisplay_Ref(t *testing.T) {
	rd := domain.RefDisplay{UID: 42, Name: "Ana", Email: "ana@example.com"}
	assert.Equal(t, domain.Reference{UID: 42}, rd.Ref())
}
