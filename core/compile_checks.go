package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ FieldProvider = (*NamedEntityCollection[Entity])(nil)
	_ NamedEntity   = Entity{}
	_ Executor      = ExecutorFunc(nil)
	_ Authenticator = AuthenticatorFunc(nil)

	_ ConfigProvider  = (*CfgxConfigProvider)(nil)
	_ OptionsResolver = GoOptionsResolver{}
	_ RawConfigLoader = StaticRawConfigLoader{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
