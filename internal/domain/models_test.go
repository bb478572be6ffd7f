package domain

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"customer", RoleCustomer, true},
		{" Provider ", RoleProvider, true},
		{"ADMIN", RoleAdmin, true},
		{"superuser", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseRole(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseRole(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseFrequency(t *testing.T) {
	for _, valid := range []string{"instant", "hourly", "daily", "weekly", "off", " Daily "} {
		if _, ok := ParseFrequency(valid); !ok {
			t.Fatalf("ParseFrequency(%q) rejected", valid)
		}
	}
	for _, invalid := range []string{"", "sometimes", "bi-weekly"} {
		if _, ok := ParseFrequency(invalid); ok {
			t.Fatalf("ParseFrequency(%q) accepted", invalid)
		}
	}
}

func TestJoinSplitChannels_StableOrder(t *testing.T) {
	e := AuditEntry{}
	// Input order is scrambled; storage order must follow AllChannels.
	e.SetEnabled([]Channel{ChannelPush, ChannelToast, ChannelDatabase})
	if e.ChannelsEnabled != "toast,database,push" {
		t.Fatalf("ChannelsEnabled = %q", e.ChannelsEnabled)
	}

	got := SplitChannels(e.ChannelsEnabled)
	if len(got) != 3 || got[0] != ChannelToast || got[2] != ChannelPush {
		t.Fatalf("SplitChannels = %v", got)
	}

	e.SetEnabled(nil)
	if e.ChannelsEnabled != "" {
		t.Fatalf("empty set = %q", e.ChannelsEnabled)
	}
	if got := SplitChannels(" , unknown ,email"); len(got) != 1 || got[0] != ChannelEmail {
		t.Fatalf("SplitChannels with junk = %v", got)
	}
}

func TestTemplateChannelEnabled(t *testing.T) {
	tpl := Template{EmailEnabled: true, DatabaseEnabled: true}
	if !tpl.ChannelEnabled(ChannelEmail) || !tpl.ChannelEnabled(ChannelDatabase) {
		t.Fatal("enabled channels reported disabled")
	}
	if tpl.ChannelEnabled(ChannelToast) || tpl.ChannelEnabled(ChannelPush) {
		t.Fatal("disabled channels reported enabled")
	}
	if tpl.ChannelEnabled(Channel("carrier-pigeon")) {
		t.Fatal("unknown channel reported enabled")
	}
}

func TestPreferenceChannelOverride(t *testing.T) {
	on, off := true, false
	p := UserPreference{ToastEnabled: &off, PushEnabled: &on}

	if v := p.ChannelOverride(ChannelToast); v == nil || *v {
		t.Fatal("toast override lost")
	}
	if v := p.ChannelOverride(ChannelPush); v == nil || !*v {
		t.Fatal("push override lost")
	}
	// nil means inherit the template default
	if p.ChannelOverride(ChannelEmail) != nil {
		t.Fatal("unset override should be nil")
	}
}

func TestDispatchAttemptVariable(t *testing.T) {
	a := DispatchAttempt{Variables: map[string]string{"booking_id": "b-1"}}
	if a.Variable("booking_id") != "b-1" {
		t.Fatal("present variable lost")
	}
	if a.Variable("missing") != "" {
		t.Fatal("missing variable should be empty")
	}
	empty := DispatchAttempt{}
	if empty.Variable("any") != "" {
		t.Fatal("nil bag should read empty")
	}
}

func TestDispatchResultChannelSets(t *testing.T) {
	r := DispatchResult{Channels: map[Channel]ChannelStatus{
		ChannelToast:    StatusSent,
		ChannelDatabase: StatusFailed,
		ChannelEmail:    StatusSent,
	}}
	sent := r.SentChannels()
	if len(sent) != 2 || sent[0] != ChannelToast || sent[1] != ChannelEmail {
		t.Fatalf("SentChannels = %v", sent)
	}
	failed := r.FailedChannels()
	if len(failed) != 1 || failed[0] != ChannelDatabase {
		t.Fatalf("FailedChannels = %v", failed)
	}
}
