package catalog

import (
	"context"
	"fmt"
	"time"

	"abilityctl/pkg/logging"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// DefaultConfigMapKey is the data key holding the catalog document.
const DefaultConfigMapKey = "catalog.yaml"

// NewClientsetFromConfig creates a clientset from a rest.Config.
// Exported to allow overriding in tests.
var NewClientsetFromConfig = func(c *rest.Config) (kubernetes.Interface, error) {
	return kubernetes.NewForConfig(c)
}

// NewClientset builds a clientset for a kubeconfig and context. Empty values
// use the default loading rules and the current context.
func NewClientset(kubeconfig, kubeContext string) (kubernetes.Interface, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		loadingRules.ExplicitPath = kubeconfig
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: kubeContext}
	restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get REST config for context %q: %w", kubeContext, err)
	}
	restConfig.Timeout = 15 * time.Second

	clientset, err := NewClientsetFromConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes clientset: %w", err)
	}
	return clientset, nil
}

// ConfigMapStore serves a catalog kept in a ConfigMap.
type ConfigMapStore struct {
	*MemoryStore

	client    kubernetes.Interface
	namespace string
	name      string
	key       string
}

// NewConfigMapStore reads the catalog from namespace/name. An empty key uses
// DefaultConfigMapKey.
func NewConfigMapStore(ctx context.Context, client kubernetes.Interface, namespace, name, key string) (*ConfigMapStore, error) {
	if key == "" {
		key = DefaultConfigMapKey
	}
	s := &ConfigMapStore{
		MemoryStore: &MemoryStore{},
		client:      client,
		namespace:   namespace,
		name:        name,
		key:         key,
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh fetches the ConfigMap again. On error the previous catalog stays
// served.
func (s *ConfigMapStore) Refresh(ctx context.Context) error {
	cm, err := s.client.CoreV1().ConfigMaps(s.namespace).Get(ctx, s.name, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("failed to get configmap %s/%s: %w", s.namespace, s.name, err)
	}
	data, ok := cm.Data[s.key]
	if !ok {
		return fmt.Errorf("configmap %s/%s has no key %q", s.namespace, s.name, s.key)
	}
	doc, err := ParseDocument([]byte(data))
	if err != nil {
		return fmt.Errorf("configmap %s/%s: %w", s.namespace, s.name, err)
	}
	if err := s.Replace(doc); err != nil {
		return err
	}
	logging.Info("Catalog", "Loaded %d abilities and %d executors from configmap %s/%s",
		len(doc.Abilities), len(doc.Executors), s.namespace, s.name)
	return nil
}
