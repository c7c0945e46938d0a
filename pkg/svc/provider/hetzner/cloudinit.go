package hetzner

import (
	"fmt"
	"maps"
	"slices"

	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"sigs.k8s.io/yaml"
)

const (
	// cloudConfigHeader marks user data as cloud-init cloud-config.
	cloudConfigHeader = "#cloud-config\n"
	// containerName is the name of the ping container on every server.
	containerName = "gcping"
	// publicPort is the host port the ping container is published on.
	publicPort = 80
)

type cloudConfig struct {
	RunCmd [][]string `json:"runcmd"`
}

// UserData renders the cloud-init document that starts the ping container.
// Environment variables are emitted in key order so the output is stable.
func UserData(spec provider.InstanceSpec, containerPort int) (string, error) {
	args := []string{
		"docker", "run", "--detach",
		"--restart=unless-stopped",
		"--name", containerName,
		"--publish", fmt.Sprintf("%d:%d", publicPort, containerPort),
	}

	for _, key := range slices.Sorted(maps.Keys(spec.Env)) {
		args = append(args, "--env", key+"="+spec.Env[key])
	}

	args = append(args, spec.Image)

	data, err := yaml.Marshal(cloudConfig{RunCmd: [][]string{args}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal cloud-config: %w", err)
	}

	return cloudConfigHeader + string(data), nil
}
