package edition

// featureEditions maps corpus feature tags to the edition that introduced
// them. Proposals without a numbered edition map to ESNext.
var featureEditions = map[string]Edition{
	"Intl.Locale-info":                                 ESNext,
	"FinalizationRegistry.prototype.cleanupSome":       ESNext,
	"Intl.NumberFormat-v3":                             ESNext,
	"legacy-regexp":                                    ESNext,
	"import-attributes":                                ESNext,
	"import-assertions":                                ESNext,
	"json-modules":                                     ESNext,
	"arraybuffer-transfer":                             ESNext,
	"Temporal":                                         ESNext,
	"ShadowRealm":                                      ESNext,
	"Intl.DurationFormat":                              ESNext,
	"decorators":                                       ESNext,
	"regexp-duplicate-named-groups":                    ESNext,
	"Array.fromAsync":                                  ESNext,
	"json-parse-with-source":                           ESNext,
	"regexp-modifiers":                                 ESNext,
	"iterator-helpers":                                 ESNext,
	"promise-try":                                      ESNext,
	"set-methods":                                      ESNext,
	"explicit-resource-management":                     ESNext,
	"Float16Array":                                     ESNext,
	"Math.sumPrecise":                                  ESNext,
	"source-phase-imports":                             ESNext,
	"source-phase-imports-module-source":               ESNext,
	"Atomics.waitAsync":                                ESNext,
	"regexp-v-flag":                                    ESNext,
	"String.prototype.isWellFormed":                    ESNext,
	"String.prototype.toWellFormed":                    ESNext,
	"resizable-arraybuffer":                            ESNext,
	"promise-with-resolvers":                           ESNext,
	"array-grouping":                                   ESNext,
	"AggregateError":                                   ES12,
	"align-detached-buffer-semantics-with-web-reality": ES12,
	"arbitrary-module-namespace-names":                 ES13,
	"ArrayBuffer":                                      ES6,
	"array-find-from-last":                             ES14,
	"Array.prototype.at":                               ES13,
	"Array.prototype.flat":                             ES10,
	"Array.prototype.flatMap":                          ES10,
	"Array.prototype.includes":                         ES7,
	"Array.prototype.values":                           ES6,
	"arrow-function":                                   ES6,
	"async-iteration":                                  ES9,
	"async-functions":                                  ES8,
	"Atomics":                                          ES8,
	"BigInt":                                           ES11,
	"caller":                                           ES5,
	"change-array-by-copy":                             ES14,
	"class":                                            ES6,
	"class-fields-private":                             ES13,
	"class-fields-private-in":                          ES13,
	"class-fields-public":                              ES13,
	"class-methods-private":                            ES13,
	"class-static-block":                               ES13,
	"class-static-fields-private":                      ES13,
	"class-static-fields-public":                       ES13,
	"class-static-methods-private":                     ES13,
	"coalesce-expression":                              ES11,
	"computed-property-names":                          ES6,
	"const":                                            ES6,
	"cross-realm":                                      ES6,
	"DataView":                                         ES6,
	"DataView.prototype.getFloat32":                    ES6,
	"DataView.prototype.getFloat64":                    ES6,
	"DataView.prototype.getInt16":                      ES6,
	"DataView.prototype.getInt32":                      ES6,
	"DataView.prototype.getInt8":                       ES6,
	"DataView.prototype.getUint16":                     ES6,
	"DataView.prototype.getUint32":                     ES6,
	"DataView.prototype.setUint8":                      ES6,
	"default-parameters":                               ES6,
	"destructuring-assignment":                         ES6,
	"destructuring-binding":                            ES6,
	"dynamic-import":                                   ES11,
	"error-cause":                                      ES13,
	"exponentiation":                                   ES7,
	"export-star-as-namespace-from-module":             ES11,
	"FinalizationRegistry":                             ES12,
	"for-in-order":                                     ES11,
	"for-of":                                           ES6,
	"Float32Array":                                     ES6,
	"Float64Array":                                     ES6,
	"generators":                                       ES6,
	"globalThis":                                       ES11,
	"hashbang":                                         ES14,
	"import.meta":                                      ES11,
	"Int8Array":                                        ES6,
	"Int16Array":                                       ES6,
	"Int32Array":                                       ES6,
	"Intl-enumeration":                                 ES14,
	"intl-normative-optional":                          ES8,
	"Intl.DateTimeFormat-datetimestyle":                ES12,
	"Intl.DateTimeFormat-dayPeriod":                    ES8,
	"Intl.DateTimeFormat-extend-timezonename":          ES13,
	"Intl.DateTimeFormat-formatRange":                  ES12,
	"Intl.DateTimeFormat-fractionalSecondDigits":       ES12,
	"Intl.DisplayNames":                                ES12,
	"Intl.DisplayNames-v2":                             ES13,
	"Intl.ListFormat":                                  ES12,
	"Intl.Locale":                                      ES12,
	"Intl.NumberFormat-unified":                        ES11,
	"Intl.RelativeTimeFormat":                          ES11,
	"Intl.Segmenter":                                   ES13,
	"json-superset":                                    ES10,
	"let":                                              ES6,
	"logical-assignment-operators":                     ES12,
	"Map":                                              ES6,
	"new.target":                                       ES6,
	"numeric-separator-literal":                        ES12,
	"object-rest":                                      ES9,
	"object-spread":                                    ES9,
	"Object.fromEntries":                               ES10,
	"Object.hasOwn":                                    ES13,
	"Object.is":                                        ES6,
	"optional-catch-binding":                           ES10,
	"optional-chaining":                                ES11,
	"Promise":                                          ES6,
	"Promise.allSettled":                               ES11,
	"Promise.any":                                      ES12,
	"Promise.prototype.finally":                        ES9,
	"Proxy":                                            ES6,
	"proxy-missing-checks":                             ES6,
	"Reflect":                                          ES6,
	"Reflect.construct":                                ES6,
	"Reflect.set":                                      ES6,
	"Reflect.setPrototypeOf":                           ES6,
	"regexp-dotall":                                    ES9,
	"regexp-lookbehind":                                ES9,
	"regexp-match-indices":                             ES13,
	"regexp-named-groups":                              ES9,
	"regexp-unicode-property-escapes":                  ES9,
	"rest-parameters":                                  ES6,
	"Set":                                              ES6,
	"SharedArrayBuffer":                                ES8,
	"string-trimming":                                  ES10,
	"String.fromCodePoint":                             ES6,
	"String.prototype.at":                              ES13,
	"String.prototype.endsWith":                        ES6,
	"String.prototype.includes":                        ES6,
	"String.prototype.matchAll":                        ES11,
	"String.prototype.replaceAll":                      ES12,
	"String.prototype.trimEnd":                         ES10,
	"String.prototype.trimStart":                       ES10,
	"super":                                            ES6,
	"Symbol":                                           ES6,
	"symbols-as-weakmap-keys":                          ES14,
	"Symbol.asyncIterator":                             ES9,
	"Symbol.hasInstance":                               ES6,
	"Symbol.isConcatSpreadable":                        ES6,
	"Symbol.iterator":                                  ES6,
	"Symbol.match":                                     ES6,
	"Symbol.matchAll":                                  ES11,
	"Symbol.prototype.description":                     ES10,
	"Symbol.replace":                                   ES6,
	"Symbol.search":                                    ES6,
	"Symbol.species":                                   ES6,
	"Symbol.split":                                     ES6,
	"Symbol.toPrimitive":                               ES6,
	"Symbol.toStringTag":                               ES6,
	"Symbol.unscopables":                               ES6,
	"tail-call-optimization":                           ES6,
	"template":                                         ES6,
	"top-level-await":                                  ES13,
	"TypedArray":                                       ES6,
	"TypedArray.prototype.at":                          ES13,
	"u180e":                                            ES7,
	"Uint8Array":                                       ES6,
	"Uint16Array":                                      ES6,
	"Uint32Array":                                      ES6,
	"Uint8ClampedArray":                                ES6,
	"WeakMap":                                          ES6,
	"WeakRef":                                          ES12,
	"WeakSet":                                          ES6,
	"well-formed-json-stringify":                       ES10,
	"__proto__":                                        ES6,
	"__getter__":                                       ES8,
	"__setter__":                                       ES8,
	"IsHTMLDDA":                                        ES9,
	"host-gc-required":                                 ES5,
}

// specIDEditions resolves edition names used as spec identifiers.
var specIDEditions = map[string]Edition{
	"ES5":    ES5,
	"ES6":    ES6,
	"ES7":    ES7,
	"ES8":    ES8,
	"ES9":    ES9,
	"ES10":   ES10,
	"ES11":   ES11,
	"ES12":   ES12,
	"ES13":   ES13,
	"ES14":   ES14,
	"ESNext": ESNext,
}
