package main

import "testing"

func TestDashboardURL(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want string
	}{
		{
			name: "bare port",
			addr: ":8087",
			want: "http://localhost:8087",
		},
		{
			name: "explicit host",
			addr: "192.168.1.20:8087",
			want: "http://192.168.1.20:8087",
		},
		{
			name: "wildcard ipv4",
			addr: "0.0.0.0:8087",
			want: "http://localhost:8087",
		},
		{
			name: "wildcard ipv6",
			addr: "[::]:8087",
			want: "http://localhost:8087",
		},
		{
			name: "hostname",
			addr: "dashboard.local:80",
			want: "http://dashboard.local:80",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dashboardURL(tt.addr); got != tt.want {
				t.Errorf("dashboardURL(%q) = %q, want %q", tt.addr, got, tt.want)
			}
		})
	}
}
