// Package draw renders tree sequences and single trees as SVG.
//
// The output follows the class conventions of tskit's own drawings, so
// stylesheets written for those work unchanged:
//
//	<svg ...>
//	  <defs><style>default CSS, then the caller's style</style></defs>
//	  <g class="tree-sequence">
//	    <g class="x-axis"> axis line, one "tick" group per breakpoint </g>
//	    <g class="trees">
//	      <g class="tree t0" transform="translate(..)">
//	        <g class="plotbox">
//	          <g class="node n6 root" transform="translate(..)">
//	            <path class="edge"/> <g class="mut m0 s0"/>
//	            <g class="node n4" ...> nested children </g>
//	            <circle class="sym"/> <text class="lab"/>
//
// Node groups are nested and translated relative to their parent, so a
// selector such as ".n4 .edge" picks the edge above node 4 together with
// every edge below it. Figures lean on this to colour whole lineages.
//
// Layout is deliberately simple: leaves are evenly spaced in minlex order,
// internal nodes sit midway between their first and last child, and the
// vertical axis is linear in time.
package draw
